package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/payments-engine/internal/domain/account"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal places written for amounts
const DefaultPrecision = 4

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Writer renders account snapshots as "client, available, held, total, locked" rows
type Writer struct {
	csv       *csv.Writer
	precision int32
}

func NewWriter(w io.Writer, precision int) *Writer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Writer{csv: csv.NewWriter(w), precision: int32(precision)}
}

// WriteAccounts writes the header followed by one row per account, in the given order
func (w *Writer) WriteAccounts(accounts []account.Account) error {
	if err := w.csv.Write(snapshotHeader); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	row := make([]string, len(snapshotHeader))
	for _, acc := range accounts {
		row[0] = strconv.FormatUint(uint64(acc.ClientID), 10)
		row[1] = FormatAmount(acc.Available, w.precision)
		row[2] = FormatAmount(acc.Held, w.precision)
		row[3] = FormatAmount(acc.Total, w.precision)
		row[4] = strconv.FormatBool(acc.Locked)
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("failed to write snapshot row for client %d: %w", acc.ClientID, err)
		}
	}

	w.csv.Flush()
	return w.csv.Error()
}

// FormatAmount renders amount with a fixed number of decimal places
func FormatAmount(amount float64, precision int32) string {
	return decimal.NewFromFloat(amount).StringFixed(precision)
}

// Package csvio reads transaction records from CSV input and writes account
// snapshots back out as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/payments-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidHeader = errors.New("input header must start with type, client, tx")
	ErrTooFewFields  = errors.New("row needs at least type, client and tx")
)

// RowError reports a row that could not be turned into a record. It is not
// fatal: the reader can continue with the next row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader yields records from "type, client, tx, amount" CSV input
type Reader struct {
	csv        *csv.Reader
	headerRead bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // amount may be omitted entirely
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next record, io.EOF at the end of input, a *RowError for a
// malformed row, or any other error when the input cannot be read at all.
func (r *Reader) Next() (transaction.Record, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return transaction.Record{}, err
		}
	}

	fields, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return transaction.Record{}, &RowError{Line: parseErr.Line, Err: parseErr.Err}
		}
		return transaction.Record{}, err
	}

	line, _ := r.csv.FieldPos(0)
	rec, err := parseRecord(fields)
	if err != nil {
		return transaction.Record{}, &RowError{Line: line, Err: err}
	}
	return rec, nil
}

func (r *Reader) readHeader() error {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("failed to read input header: %w", err)
	}
	r.headerRead = true

	expected := []string{"type", "client", "tx"}
	if len(fields) < len(expected) {
		return ErrInvalidHeader
	}
	for i, name := range expected {
		if !strings.EqualFold(strings.TrimSpace(fields[i]), name) {
			return ErrInvalidHeader
		}
	}
	return nil
}

func parseRecord(fields []string) (transaction.Record, error) {
	if len(fields) < 3 {
		return transaction.Record{}, ErrTooFewFields
	}

	txType, err := transaction.ParseType(fields[0])
	if err != nil {
		return transaction.Record{}, err
	}

	clientID, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return transaction.Record{}, fmt.Errorf("invalid client id %q: %w", fields[1], err)
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return transaction.Record{}, fmt.Errorf("invalid transaction id %q: %w", fields[2], err)
	}

	rec := transaction.NewRecord(txType, uint16(clientID), uint32(txID))

	if len(fields) > 3 {
		if raw := strings.TrimSpace(fields[3]); raw != "" {
			amount, err := ParseAmount(raw)
			if err != nil {
				return transaction.Record{}, err
			}
			rec = rec.WithAmount(amount)
		}
	}
	return rec, nil
}

// ParseAmount parses a decimal amount such as "1.2345"
func ParseAmount(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	amount, _ := d.Float64()
	return amount, nil
}

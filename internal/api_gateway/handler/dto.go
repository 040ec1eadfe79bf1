package handler

import (
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/platform/csvio"
	"github.com/shopspring/decimal"
)

// AccountResponse represents an account in API responses. Amounts are
// rendered with the same fixed precision as the CSV snapshot.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// CreateTransactionRequest represents a record submitted over HTTP. Amount
// accepts either a JSON number or a decimal string.
type CreateTransactionRequest struct {
	Type   string           `json:"type" binding:"required"`
	Client *uint16          `json:"client" binding:"required"`
	Tx     *uint32          `json:"tx" binding:"required"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// TransactionResponse represents a recorded deposit or withdrawal in API responses
type TransactionResponse struct {
	Tx     uint32 `json:"tx"`
	Client uint16 `json:"client"`
	Amount string `json:"amount"`
	State  string `json:"state"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=50" binding:"min=1,max=500"`
}

func (r CreateTransactionRequest) toRecord() (transaction.Record, error) {
	txType, err := transaction.ParseType(r.Type)
	if err != nil {
		return transaction.Record{}, err
	}

	rec := transaction.NewRecord(txType, *r.Client, *r.Tx)
	if r.Amount != nil {
		amount, _ := r.Amount.Float64()
		rec = rec.WithAmount(amount)
	}
	return rec, nil
}

// mapAccountToResponse maps an account to an account response DTO
func mapAccountToResponse(acc account.Account, precision int32) AccountResponse {
	return AccountResponse{
		Client:    acc.ClientID,
		Available: csvio.FormatAmount(acc.Available, precision),
		Held:      csvio.FormatAmount(acc.Held, precision),
		Total:     csvio.FormatAmount(acc.Total, precision),
		Locked:    acc.Locked,
	}
}

// mapRecordedToResponse maps a recorded transaction to a transaction response DTO
func mapRecordedToResponse(txID uint32, recorded transaction.Recorded, precision int32) TransactionResponse {
	return TransactionResponse{
		Tx:     txID,
		Client: recorded.ClientID,
		Amount: csvio.FormatAmount(float64(recorded.Amount), precision),
		State:  recorded.State.String(),
	}
}

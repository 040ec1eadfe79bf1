// Package transaction models the records fed to the engine and the
// deposits and withdrawals it keeps around so they can later be disputed.
package transaction

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownType = errors.New("unknown transaction type")

// Type is the kind of an incoming record. The set is closed.
type Type uint8

const (
	TypeDeposit Type = iota + 1
	TypeWithdrawal
	TypeDispute
	TypeResolve
	TypeChargeback
)

var typeNames = map[Type]string{
	TypeDeposit:    "deposit",
	TypeWithdrawal: "withdrawal",
	TypeDispute:    "dispute",
	TypeResolve:    "resolve",
	TypeChargeback: "chargeback",
}

// ParseType parses a record type, ignoring case and surrounding whitespace.
// "withdraw" is accepted as an alias of "withdrawal".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return TypeDeposit, nil
	case "withdrawal", "withdraw":
		return TypeWithdrawal, nil
	case "dispute":
		return TypeDispute, nil
	case "resolve":
		return TypeResolve, nil
	case "chargeback":
		return TypeChargeback, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// MovesFunds reports whether records of this type carry an amount and are recorded
func (t Type) MovesFunds() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Record is one incoming row: a type, the client it targets, the transaction
// id it creates or references, and an amount for deposits and withdrawals.
type Record struct {
	Type     Type     `json:"type"`
	ClientID uint16   `json:"client"`
	TxID     uint32   `json:"tx"`
	Amount   *float64 `json:"amount,omitempty"`
}

// NewRecord builds a record without an amount
func NewRecord(t Type, clientID uint16, txID uint32) Record {
	return Record{Type: t, ClientID: clientID, TxID: txID}
}

// WithAmount returns a copy of the record carrying amount
func (r Record) WithAmount(amount float64) Record {
	r.Amount = &amount
	return r
}

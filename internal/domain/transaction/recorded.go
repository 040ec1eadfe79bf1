package transaction

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidStateTransition = errors.New("invalid state transition")

// State is where a recorded transaction sits in the dispute protocol
type State uint8

const (
	StateUndisputed State = iota
	StateDisputed
	StateChargebacked
)

func (s State) String() string {
	switch s {
	case StateUndisputed:
		return "undisputed"
	case StateDisputed:
		return "disputed"
	case StateChargebacked:
		return "chargebacked"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Next returns the state reached by applying a dispute, resolve or chargeback.
//
//	undisputed --dispute-->    disputed
//	disputed   --resolve-->    undisputed
//	disputed   --chargeback--> chargebacked (terminal)
//
// Every other pair yields ErrInvalidStateTransition.
func (s State) Next(t Type) (State, error) {
	switch {
	case s == StateUndisputed && t == TypeDispute:
		return StateDisputed, nil
	case s == StateDisputed && t == TypeResolve:
		return StateUndisputed, nil
	case s == StateDisputed && t == TypeChargeback:
		return StateChargebacked, nil
	}
	return s, fmt.Errorf("%w: %s on %s transaction", ErrInvalidStateTransition, t, s)
}

// SignedAmount is a recorded transaction's amount with its direction folded
// into the sign: deposits are stored positive, withdrawals negative.
//
// Dispute, resolve and chargeback apply the same hold/release/forfeit
// arithmetic whatever the original direction was. The consequence is that
// disputing a withdrawal of 0.5 holds -0.5: available goes up by 0.5 and
// held goes down to -0.5 while total is unchanged.
type SignedAmount float64

// SignedAmountOf folds the record's direction into its amount
func SignedAmountOf(t Type, amount float64) SignedAmount {
	if t == TypeWithdrawal {
		return SignedAmount(-amount)
	}
	return SignedAmount(amount)
}

// Recorded is an accepted deposit or withdrawal
type Recorded struct {
	ClientID uint16       `json:"client"`
	Amount   SignedAmount `json:"amount"`
	State    State        `json:"state"`
}

// ErrRecordNotFound indicates no deposit or withdrawal carries the id
type ErrRecordNotFound struct {
	TxID uint32
}

func (e ErrRecordNotFound) Error() string {
	return "transaction not found: " + strconv.FormatUint(uint64(e.TxID), 10)
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	_, ok := target.(ErrRecordNotFound)
	return ok
}

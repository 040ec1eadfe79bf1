// Package engine applies an ordered stream of transaction records to
// per-client accounts under the dispute protocol.
//
// An Engine is a single-threaded fold: records are applied one at a time, in
// arrival order, and each is either fully applied or rejected without any
// mutation. Use Synchronized when several goroutines feed one engine.
package engine

import (
	"fmt"
	"sort"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
)

// Config tunes engine behaviour
type Config struct {
	// StrictClientMatch rejects dispute, resolve and chargeback records whose
	// client differs from the owner of the referenced transaction. When off,
	// references resolve by transaction id alone and the balance change lands
	// on the account of the record's client.
	StrictClientMatch bool
}

// RejectionError reports why a record was not applied
type RejectionError struct {
	Record transaction.Record
	Err    error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s for client %d tx %d rejected: %v", e.Record.Type, e.Record.ClientID, e.Record.TxID, e.Err)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// Engine owns the accounts and the recorded deposits and withdrawals
type Engine struct {
	cfg          Config
	accounts     map[uint16]*account.Account
	transactions map[uint32]*transaction.Recorded
}

func New(cfg Config) *Engine {
	return &Engine{
		cfg:          cfg,
		accounts:     make(map[uint16]*account.Account),
		transactions: make(map[uint32]*transaction.Recorded),
	}
}

// Process applies a single record. A non-nil error is always a *RejectionError
// and means nothing changed, except that the client's account now exists.
func (e *Engine) Process(rec transaction.Record) error {
	// Accounts exist from first reference, even if every record is rejected.
	acc := e.accountFor(rec.ClientID)

	if acc.Locked {
		return reject(rec, shared.ErrAccountLocked)
	}

	var err error
	switch rec.Type {
	case transaction.TypeDeposit, transaction.TypeWithdrawal:
		err = e.record(acc, rec)
	case transaction.TypeDispute, transaction.TypeResolve, transaction.TypeChargeback:
		err = e.transition(acc, rec)
	default:
		err = fmt.Errorf("%w: %s", transaction.ErrUnknownType, rec.Type)
	}
	if err != nil {
		return reject(rec, err)
	}
	return nil
}

func (e *Engine) record(acc *account.Account, rec transaction.Record) error {
	if _, exists := e.transactions[rec.TxID]; exists {
		return shared.ErrDuplicateTransaction
	}
	if rec.Amount == nil {
		return shared.ErrMissingAmount
	}

	amount := *rec.Amount
	var err error
	if rec.Type == transaction.TypeDeposit {
		err = acc.Deposit(amount)
	} else {
		err = acc.Withdraw(amount)
	}
	if err != nil {
		return err
	}

	e.transactions[rec.TxID] = &transaction.Recorded{
		ClientID: rec.ClientID,
		Amount:   transaction.SignedAmountOf(rec.Type, amount),
		State:    transaction.StateUndisputed,
	}
	return nil
}

func (e *Engine) transition(acc *account.Account, rec transaction.Record) error {
	recorded, ok := e.transactions[rec.TxID]
	if !ok {
		return shared.ErrUnknownTransaction
	}
	if e.cfg.StrictClientMatch && recorded.ClientID != rec.ClientID {
		return fmt.Errorf("%w: tx %d belongs to client %d", shared.ErrClientMismatch, rec.TxID, recorded.ClientID)
	}

	next, err := recorded.State.Next(rec.Type)
	if err != nil {
		return err
	}

	amount := float64(recorded.Amount)
	switch rec.Type {
	case transaction.TypeDispute:
		acc.Hold(amount)
	case transaction.TypeResolve:
		acc.Release(amount)
	case transaction.TypeChargeback:
		acc.Forfeit(amount)
	}
	recorded.State = next
	return nil
}

func (e *Engine) accountFor(clientID uint16) *account.Account {
	acc, ok := e.accounts[clientID]
	if !ok {
		acc = account.NewAccount(clientID)
		e.accounts[clientID] = acc
	}
	return acc
}

func reject(rec transaction.Record, err error) error {
	return &RejectionError{Record: rec, Err: err}
}

// Accounts returns a copy of every account, ascending by client id
func (e *Engine) Accounts() []account.Account {
	accounts := make([]account.Account, 0, len(e.accounts))
	for _, acc := range e.accounts {
		accounts = append(accounts, *acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ClientID < accounts[j].ClientID
	})
	return accounts
}

// Account returns a copy of the client's account
func (e *Engine) Account(clientID uint16) (account.Account, error) {
	acc, ok := e.accounts[clientID]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound{ClientID: clientID}
	}
	return *acc, nil
}

// Transaction returns a copy of a recorded deposit or withdrawal
func (e *Engine) Transaction(txID uint32) (transaction.Recorded, error) {
	recorded, ok := e.transactions[txID]
	if !ok {
		return transaction.Recorded{}, transaction.ErrRecordNotFound{TxID: txID}
	}
	return *recorded, nil
}

// Len returns the number of accounts and recorded transactions
func (e *Engine) Len() (accounts, transactions int) {
	return len(e.accounts), len(e.transactions)
}

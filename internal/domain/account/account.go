package account

import (
	"errors"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Account holds the balances of a single client.
//
// Total always equals Available + Held. Amounts are plain float64 and may go
// negative when disputes reference withdrawals or arrive out of order.
type Account struct {
	ClientID  uint16  `json:"client"`
	Available float64 `json:"available"`
	Held      float64 `json:"held"`
	Total     float64 `json:"total"`
	Locked    bool    `json:"locked"`
}

// NewAccount creates an empty, unlocked account for the given client
func NewAccount(clientID uint16) *Account {
	return &Account{ClientID: clientID}
}

// Deposit adds the specified amount to the available and total balances
func (a *Account) Deposit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Total += amount
	a.Available += amount
	return nil
}

// Withdraw subtracts the specified amount from the available and total balances
func (a *Account) Withdraw(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if !a.CanWithdraw(amount) {
		return ErrInsufficientFunds
	}

	a.Total -= amount
	a.Available -= amount
	return nil
}

// CanWithdraw checks if the account has sufficient available funds for a withdrawal
func (a *Account) CanWithdraw(amount float64) bool {
	return a.Available >= amount
}

// Hold moves amount from available to held. The amount is signed: holding a
// negative amount (a disputed withdrawal) raises available and lowers held.
func (a *Account) Hold(amount float64) {
	a.Available -= amount
	a.Held += amount
}

// Release moves amount from held back to available
func (a *Account) Release(amount float64) {
	a.Available += amount
	a.Held -= amount
}

// Forfeit removes amount from held and total and locks the account for good
func (a *Account) Forfeit(amount float64) {
	a.Held -= amount
	a.Total -= amount
	a.Locked = true
}

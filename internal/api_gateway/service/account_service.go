package service

import (
	"context"

	"github.com/payments-engine/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	ledger Ledger
}

// NewAccountService creates a new account service
func NewAccountService(ledger Ledger) AccountService {
	return &AccountServiceImpl{
		ledger: ledger,
	}
}

// ListAccounts returns the requested page of accounts. Pages past the end are empty.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, page, perPage int) ([]account.Account, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	accounts := s.ledger.Accounts()
	total := len(accounts)

	// Compare page numbers before multiplying so a huge page cannot overflow
	if page < 1 || perPage < 1 || total == 0 || page-1 > (total-1)/perPage {
		return []account.Account{}, total, nil
	}
	start := (page - 1) * perPage
	end := total
	if total-start > perPage {
		end = start + perPage
	}
	return accounts[start:end], total, nil
}

// GetAccount retrieves the client's account, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccount(ctx context.Context, clientID uint16) (account.Account, error) {
	if err := ctx.Err(); err != nil {
		return account.Account{}, err
	}
	return s.ledger.Account(clientID)
}

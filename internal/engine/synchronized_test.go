package engine

import (
	"sync"
	"testing"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronized_ConcurrentProcess(t *testing.T) {
	s := NewSynchronized(Config{})

	const clients = 8
	const depositsPerClient = 50

	var wg sync.WaitGroup
	for c := 1; c <= clients; c++ {
		wg.Add(1)
		go func(client uint16) {
			defer wg.Done()
			for i := 0; i < depositsPerClient; i++ {
				tx := uint32(client)*1000 + uint32(i)
				err := s.Process(transaction.NewRecord(transaction.TypeDeposit, client, tx).WithAmount(1.0))
				assert.NoError(t, err)
			}
		}(uint16(c))
	}
	wg.Wait()

	accounts := s.Accounts()
	require.Len(t, accounts, clients)
	for _, acc := range accounts {
		assert.Equal(t, float64(depositsPerClient), acc.Available)
		assert.Equal(t, float64(depositsPerClient), acc.Total)
	}
}

func TestSynchronized_Lookups(t *testing.T) {
	s := NewSynchronized(Config{StrictClientMatch: true})
	require.NoError(t, s.Process(transaction.NewRecord(transaction.TypeDeposit, 4, 1).WithAmount(2.5)))

	acc, err := s.Account(4)
	require.NoError(t, err)
	assert.Equal(t, account.Account{ClientID: 4, Available: 2.5, Total: 2.5}, acc)

	recorded, err := s.Transaction(1)
	require.NoError(t, err)
	assert.Equal(t, transaction.Recorded{ClientID: 4, Amount: 2.5, State: transaction.StateUndisputed}, recorded)

	_, err = s.Account(5)
	assert.ErrorIs(t, err, account.ErrAccountNotFound{})
}

func TestSynchronized_ProcessAndGet(t *testing.T) {
	s := NewSynchronized(Config{})

	acc, err := s.ProcessAndGet(transaction.NewRecord(transaction.TypeDeposit, 2, 1).WithAmount(3))
	require.NoError(t, err)
	assert.Equal(t, account.Account{ClientID: 2, Available: 3, Total: 3}, acc)

	acc, err = s.ProcessAndGet(transaction.NewRecord(transaction.TypeWithdrawal, 2, 2).WithAmount(5))
	var rejErr *RejectionError
	require.ErrorAs(t, err, &rejErr)
	assert.Equal(t, account.Account{ClientID: 2, Available: 3, Total: 3}, acc)

	acc, err = s.ProcessAndGet(transaction.NewRecord(transaction.TypeDispute, 7, 99))
	require.ErrorAs(t, err, &rejErr)
	assert.Equal(t, account.Account{ClientID: 7}, acc)
}

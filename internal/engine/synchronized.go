package engine

import (
	"sync"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

// Synchronized serializes access to an Engine so that several goroutines
// (a message consumer and HTTP handlers) can share it. Records are applied
// in the order their Process calls acquire the lock.
type Synchronized struct {
	mu     sync.Mutex
	engine *Engine
}

func NewSynchronized(cfg Config) *Synchronized {
	return &Synchronized{engine: New(cfg)}
}

func (s *Synchronized) Process(rec transaction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Process(rec)
}

// ProcessAndGet applies rec and returns the client's account as it stands
// right after, without another record landing in between. The account is
// returned on rejection too.
func (s *Synchronized) ProcessAndGet(rec transaction.Record) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.engine.Process(rec)
	acc, lookupErr := s.engine.Account(rec.ClientID)
	if err == nil {
		err = lookupErr
	}
	return acc, err
}

func (s *Synchronized) Accounts() []account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Accounts()
}

func (s *Synchronized) Account(clientID uint16) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Account(clientID)
}

func (s *Synchronized) Transaction(txID uint32) (transaction.Recorded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Transaction(txID)
}

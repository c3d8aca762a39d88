// Package store persists wholesale accounts. The memory flavor backs tests
// and local development; postgres is the production store.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"sellarte/internal/wholesale"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
)

// Memory is a mutex-guarded in-memory account store.
type Memory struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*wholesale.Account
	order    []id.AccountID
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[id.AccountID]*wholesale.Account)}
}

func (s *Memory) Create(_ context.Context, account *wholesale.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return sentinel.ErrConflict
		}
	}

	cp := *account
	s.accounts[account.ID] = &cp
	s.order = append(s.order, account.ID)
	return nil
}

func (s *Memory) Get(_ context.Context, accountID id.AccountID) (*wholesale.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *Memory) GetByEmail(_ context.Context, email string) (*wholesale.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			cp := *account
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) List(_ context.Context) ([]*wholesale.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*wholesale.Account, 0, len(s.order))
	for _, accountID := range s.order {
		cp := *s.accounts[accountID]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Memory) Update(_ context.Context, account *wholesale.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *account
	cp.UpdatedAt = time.Now().UTC()
	s.accounts[account.ID] = &cp
	return nil
}

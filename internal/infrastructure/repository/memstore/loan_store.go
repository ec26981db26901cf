package memstore

import (
	"context"
	"sync"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// LoanStore is an in-memory LoanStore for single-process deployments
// and tests. Semantics mirror the durable store: an empty collection
// seeds the built-in examples on read, upserts replace in place or
// prepend.
type LoanStore struct {
	mu    sync.RWMutex
	loans []domain.Loan
}

func NewLoanStore() *LoanStore {
	return &LoanStore{}
}

func (s *LoanStore) List(_ context.Context) ([]domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.loans) == 0 {
		s.loans = domain.SeedLoans()
	}

	out := make([]domain.Loan, len(s.loans))
	copy(out, s.loans)
	return out, nil
}

func (s *LoanStore) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.loans {
		if s.loans[i].ID == id {
			cp := s.loans[i]
			return &cp, nil
		}
	}
	return nil, domain.WrapErrorf(domain.ErrLoanNotFound, "get loan", "id %s", id)
}

func (s *LoanStore) Upsert(_ context.Context, loan *domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.loans {
		if s.loans[i].ID == loan.ID {
			s.loans[i] = *loan
			return nil
		}
	}
	s.loans = append([]domain.Loan{*loan}, s.loans...)
	return nil
}

func (s *LoanStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.loans {
		if s.loans[i].ID == id {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			return nil
		}
	}
	return domain.WrapErrorf(domain.ErrLoanNotFound, "remove loan", "id %s", id)
}

// Clear empties the collection; the next List re-seeds the examples.
func (s *LoanStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans = nil
	return nil
}

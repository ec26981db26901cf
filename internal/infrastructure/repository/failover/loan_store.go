package failover

import (
	"context"
	"log/slog"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

// LoanStore degrades reads when the primary store is unreachable: List
// and GetByID fall back to the built-in example records instead of
// failing the request. Writes are not shielded; a write against a dead
// store is an error the caller must see.
type LoanStore struct {
	primary ports.LoanStore
	logger  *slog.Logger
}

func NewLoanStore(primary ports.LoanStore, logger *slog.Logger) *LoanStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanStore{primary: primary, logger: logger}
}

func (s *LoanStore) List(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.primary.List(ctx)
	if err == nil {
		return loans, nil
	}
	if !domain.IsKind(err, domain.ErrStorageUnavailable) {
		return nil, err
	}

	s.logger.Error("loan_store_read_failed_serving_seeds", "error", err)
	return domain.SeedLoans(), nil
}

func (s *LoanStore) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.primary.GetByID(ctx, id)
	if err == nil {
		return loan, nil
	}
	if !domain.IsKind(err, domain.ErrStorageUnavailable) {
		return nil, err
	}

	s.logger.Error("loan_store_read_failed_serving_seeds", "loan_id", id, "error", err)
	for _, seed := range domain.SeedLoans() {
		if seed.ID == id {
			cp := seed
			return &cp, nil
		}
	}
	return nil, domain.WrapErrorf(domain.ErrLoanNotFound, "get loan", "id %s", id)
}

func (s *LoanStore) Upsert(ctx context.Context, loan *domain.Loan) error {
	return s.primary.Upsert(ctx, loan)
}

func (s *LoanStore) Remove(ctx context.Context, id string) error {
	return s.primary.Remove(ctx, id)
}

func (s *LoanStore) Clear(ctx context.Context) error {
	return s.primary.Clear(ctx)
}

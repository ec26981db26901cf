package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

var marginBpsRe = regexp.MustCompile(`(\d+)\s*bps`)

type SearchLoansUseCase struct {
	loans ports.LoanStore
}

func NewSearchLoansUseCase(loans ports.LoanStore) *SearchLoansUseCase {
	return &SearchLoansUseCase{loans: loans}
}

// Search filters the loan collection by free text (borrower, id,
// lenders), currency, facility type, ESG flag and margin range.
// Ordering follows the store.
func (uc *SearchLoansUseCase) Search(ctx context.Context, filter ports.LoanFilter) ([]domain.Loan, error) {
	loans, err := uc.loans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	out := make([]domain.Loan, 0, len(loans))
	for _, loan := range loans {
		if matchesFilter(loan, filter) {
			out = append(out, loan)
		}
	}
	return out, nil
}

func matchesFilter(loan domain.Loan, filter ports.LoanFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		if !matchesQuery(loan, q) {
			return false
		}
	}
	if filter.Currency != "" && !strings.EqualFold(loan.Currency.Value, filter.Currency) {
		return false
	}
	if filter.FacilityType != "" && !strings.EqualFold(loan.FacilityType.Value, filter.FacilityType) {
		return false
	}
	if filter.ESGLinked != nil && loan.ESGLinked.Value != *filter.ESGLinked {
		return false
	}

	if filter.MinMarginBps > 0 || filter.MaxMarginBps > 0 {
		bps := MarginBps(loan.InterestMargin.Value)
		if filter.MinMarginBps > 0 && bps < filter.MinMarginBps {
			return false
		}
		if filter.MaxMarginBps > 0 && bps > filter.MaxMarginBps {
			return false
		}
	}
	return true
}

func matchesQuery(loan domain.Loan, query string) bool {
	if strings.Contains(strings.ToLower(loan.Borrower.Value), query) {
		return true
	}
	if strings.Contains(strings.ToLower(loan.ID), query) {
		return true
	}
	for _, lender := range loan.Lenders.Value {
		if strings.Contains(strings.ToLower(lender), query) {
			return true
		}
	}
	return false
}

// MarginBps extracts the basis-point figure from a display margin like
// "EURIBOR + 175 bps". Unparseable margins report zero.
func MarginBps(margin string) int {
	m := marginBpsRe.FindStringSubmatch(margin)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

package usecase

import (
	"context"
	"testing"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

func TestSearchByQuery(t *testing.T) {
	loans := &fakeLoanStore{loans: domain.SeedLoans()}
	uc := NewSearchLoansUseCase(loans)

	got, err := uc.Search(context.Background(), ports.LoanFilter{Query: "meridian"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "LN-2024-001" {
		t.Fatalf("query match = %+v, want LN-2024-001", ids(got))
	}
}

func TestSearchByLoanID(t *testing.T) {
	uc := NewSearchLoansUseCase(&fakeLoanStore{loans: domain.SeedLoans()})

	got, err := uc.Search(context.Background(), ports.LoanFilter{Query: "ln-2024-002"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "LN-2024-002" {
		t.Fatalf("id match = %v, want LN-2024-002", ids(got))
	}
}

func TestSearchByCurrencyAndESG(t *testing.T) {
	uc := NewSearchLoansUseCase(&fakeLoanStore{loans: domain.SeedLoans()})

	esg := true
	got, err := uc.Search(context.Background(), ports.LoanFilter{ESGLinked: &esg})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, loan := range got {
		if !loan.ESGLinked.Value {
			t.Fatalf("non-ESG loan %s in ESG-only result", loan.ID)
		}
	}

	got, err = uc.Search(context.Background(), ports.LoanFilter{Currency: "eur"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, loan := range got {
		if loan.Currency.Value != "EUR" {
			t.Fatalf("loan %s currency = %s, want EUR", loan.ID, loan.Currency.Value)
		}
	}
}

func TestSearchByMarginRange(t *testing.T) {
	uc := NewSearchLoansUseCase(&fakeLoanStore{loans: domain.SeedLoans()})

	got, err := uc.Search(context.Background(), ports.LoanFilter{MinMarginBps: 100, MaxMarginBps: 300})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, loan := range got {
		bps := MarginBps(loan.InterestMargin.Value)
		if bps < 100 || bps > 300 {
			t.Fatalf("loan %s margin %d bps outside 100-300", loan.ID, bps)
		}
	}
}

func TestSearchEmptyFilterReturnsAll(t *testing.T) {
	uc := NewSearchLoansUseCase(&fakeLoanStore{loans: domain.SeedLoans()})

	got, err := uc.Search(context.Background(), ports.LoanFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d loans, want all 3", len(got))
	}
}

func TestMarginBps(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"EURIBOR + 175 bps", 175},
		{"SOFR + 450bps", 450},
		{"12% fixed", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := MarginBps(c.in); got != c.want {
			t.Errorf("MarginBps(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func ids(loans []domain.Loan) []string {
	out := make([]string, len(loans))
	for i, l := range loans {
		out[i] = l.ID
	}
	return out
}

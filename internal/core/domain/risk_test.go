package domain

import "testing"

func TestRiskScore(t *testing.T) {
	cases := []struct {
		warnings int
		want     int
	}{
		{0, 100},
		{1, 90},
		{3, 70},
		{10, 0},
		{15, 0},
	}
	for _, tc := range cases {
		if got := RiskScore(tc.warnings); got != tc.want {
			t.Errorf("RiskScore(%d) = %d, want %d", tc.warnings, got, tc.want)
		}
	}
}

func TestSeedLoansAreIndependentCopies(t *testing.T) {
	a := SeedLoans()
	b := SeedLoans()

	a[0].Borrower.Value = "mutated"
	a[0].Lenders.Value[0] = "mutated"

	if b[0].Borrower.Value == "mutated" {
		t.Fatalf("seed copies share scalar state")
	}
	if b[0].Lenders.Value[0] == "mutated" {
		t.Fatalf("seed copies share slice state")
	}
	if len(a) != 3 {
		t.Fatalf("expected 3 seed loans, got %d", len(a))
	}
}

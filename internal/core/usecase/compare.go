package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgeledger/loanintel/internal/core/ports"
)

type CompareLoansUseCase struct {
	loans ports.LoanStore
}

func NewCompareLoansUseCase(loans ports.LoanStore) *CompareLoansUseCase {
	return &CompareLoansUseCase{loans: loans}
}

// Compare builds side-by-side rows for two loans, flagging rows whose
// values differ.
func (uc *CompareLoansUseCase) Compare(ctx context.Context, leftID, rightID string) ([]ports.FieldDiff, error) {
	left, err := uc.loans.GetByID(ctx, leftID)
	if err != nil {
		return nil, fmt.Errorf("load loan %s: %w", leftID, err)
	}
	right, err := uc.loans.GetByID(ctx, rightID)
	if err != nil {
		return nil, fmt.Errorf("load loan %s: %w", rightID, err)
	}

	rows := []ports.FieldDiff{
		row("Borrower", left.Borrower.Value, right.Borrower.Value),
		row("Lenders", strings.Join(left.Lenders.Value, ", "), strings.Join(right.Lenders.Value, ", ")),
		row("Facility Type", left.FacilityType.Value, right.FacilityType.Value),
		row("Principal", left.Principal.Value, right.Principal.Value),
		row("Currency", left.Currency.Value, right.Currency.Value),
		row("Interest Margin", left.InterestMargin.Value, right.InterestMargin.Value),
		row("Maturity Date", left.MaturityDate.Value, right.MaturityDate.Value),
		row("Repayment Schedule", left.RepaymentSchedule.Value, right.RepaymentSchedule.Value),
		row("Arrangement Fee", left.ArrangementFee.Value, right.ArrangementFee.Value),
		row("Commitment Fee", left.CommitmentFee.Value, right.CommitmentFee.Value),
		row("Prepayment Terms", left.PrepaymentTerms.Value, right.PrepaymentTerms.Value),
		row("Covenants", fmt.Sprintf("%d", len(left.Covenants.Value)), fmt.Sprintf("%d", len(right.Covenants.Value))),
		row("ESG Linked", yesNo(left.ESGLinked.Value), yesNo(right.ESGLinked.Value)),
		row("Versions", fmt.Sprintf("%d", len(left.Versions)), fmt.Sprintf("%d", len(right.Versions))),
	}
	return rows, nil
}

func row(label, left, right string) ports.FieldDiff {
	return ports.FieldDiff{
		Label:     label,
		Left:      left,
		Right:     right,
		Different: left != right,
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

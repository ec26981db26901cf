package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

// Service renders loan records as downloadable documents: a single
// loan as integration-friendly JSON, the whole directory as an XLSX
// workbook.
type Service struct {
	loans  ports.LoanStore
	logger *slog.Logger
}

func NewService(loans ports.LoanStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{loans: loans, logger: logger}
}

type exportPrincipal struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type exportFees struct {
	Arrangement string `json:"arrangement"`
	Commitment  string `json:"commitment"`
}

type exportESG struct {
	Linked bool             `json:"linked"`
	Terms  []domain.ESGTerm `json:"terms"`
}

type exportMetadata struct {
	Versions  int       `json:"versions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// exportedLoan flattens the confidence-wrapped record into bare values
// for downstream systems.
type exportedLoan struct {
	ID                   string            `json:"id"`
	Borrower             string            `json:"borrower"`
	Lenders              []string          `json:"lenders"`
	FacilityType         string            `json:"facility_type"`
	Principal            exportPrincipal   `json:"principal"`
	InterestMargin       string            `json:"interest_margin"`
	MaturityDate         string            `json:"maturity_date"`
	RepaymentSchedule    string            `json:"repayment_schedule"`
	Fees                 exportFees        `json:"fees"`
	PrepaymentTerms      string            `json:"prepayment_terms"`
	Covenants            []domain.Covenant `json:"covenants"`
	ReportingObligations []string          `json:"reporting_obligations"`
	ESG                  exportESG         `json:"esg"`
	Metadata             exportMetadata    `json:"metadata"`
}

func (s *Service) ExportJSON(ctx context.Context, loanID string) ([]byte, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("load loan for export: %w", err)
	}

	out := exportedLoan{
		ID:           loan.ID,
		Borrower:     loan.Borrower.Value,
		Lenders:      loan.Lenders.Value,
		FacilityType: loan.FacilityType.Value,
		Principal: exportPrincipal{
			Amount:   principalAmount(loan.Principal.Value),
			Currency: loan.Currency.Value,
		},
		InterestMargin:       loan.InterestMargin.Value,
		MaturityDate:         loan.MaturityDate.Value,
		RepaymentSchedule:    loan.RepaymentSchedule.Value,
		Fees:                 exportFees{Arrangement: loan.ArrangementFee.Value, Commitment: loan.CommitmentFee.Value},
		PrepaymentTerms:      loan.PrepaymentTerms.Value,
		Covenants:            loan.Covenants.Value,
		ReportingObligations: loan.ReportingObligations.Value,
		ESG:                  exportESG{Linked: loan.ESGLinked.Value, Terms: loan.ESGTerms.Value},
		Metadata: exportMetadata{
			Versions:  len(loan.Versions),
			CreatedAt: loan.CreatedAt,
			UpdatedAt: loan.UpdatedAt,
		},
	}
	if out.Covenants == nil {
		out.Covenants = []domain.Covenant{}
	}
	if out.ESG.Terms == nil {
		out.ESG.Terms = []domain.ESGTerm{}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return b, nil
}

func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	loans, err := s.loans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans for export: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Loans"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headers := []string{
		"Loan ID", "Borrower", "Lenders", "Facility Type", "Principal", "Currency",
		"Interest Margin", "Maturity Date", "Repayment Schedule", "Arrangement Fee",
		"Commitment Fee", "Covenants", "ESG Linked", "Versions",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, loan := range loans {
		row := rowIdx + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, loan.ID)
		write(2, loan.Borrower.Value)
		write(3, strings.Join(loan.Lenders.Value, ", "))
		write(4, loan.FacilityType.Value)
		write(5, loan.Principal.Value)
		write(6, loan.Currency.Value)
		write(7, loan.InterestMargin.Value)
		write(8, loan.MaturityDate.Value)
		write(9, loan.RepaymentSchedule.Value)
		write(10, loan.ArrangementFee.Value)
		write(11, loan.CommitmentFee.Value)
		write(12, len(loan.Covenants.Value))
		write(13, loan.ESGLinked.Value)
		write(14, len(loan.Versions))
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("xlsx_export",
		"loans", len(loans),
		"bytes", out.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out.Bytes(), nil
}

// principalAmount pulls a numeric amount out of display strings like
// "450,000,000" or "$250M". Unparseable values export as zero.
func principalAmount(display string) float64 {
	s := strings.TrimSpace(display)
	s = strings.TrimLeft(s, "$€£")
	s = strings.ReplaceAll(s, ",", "")

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "B"):
		mult = 1e9
		s = strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		mult = 1e6
		s = strings.TrimSuffix(s, "M")
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return n * mult
}

package usecase

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

// Placeholder fill: the pipeline does not independently derive every
// loan attribute, so synthesis uses fixed defaults for those fields at
// a reduced confidence. This is intentional demo behavior, kept as an
// explicit policy rather than inferred extraction.
const (
	placeholderConfidence = 60
	metricsConfidence     = 75

	placeholderBorrower     = "Pending Review"
	placeholderFacilityType = "Term Loan Facility"
	placeholderCurrency     = "USD"
	placeholderMaturity     = "2029-12-31"
	placeholderRepayment    = "Bullet repayment at maturity"
	placeholderArrangement  = "50 bps"
	placeholderCommitment   = "35% of applicable margin"
	placeholderPrepayment   = "Voluntary prepayment permitted"
)

type ProcessDocumentUseCase struct {
	files     ports.FileRepository
	loans     ports.LoanStore
	docs      ports.DocumentDataStore
	extractor ports.TextExtractor
	analyzer  ports.DocumentAnalyzer

	minTextChars int
}

func NewProcessDocumentUseCase(
	files ports.FileRepository,
	loans ports.LoanStore,
	docs ports.DocumentDataStore,
	extractor ports.TextExtractor,
	analyzer ports.DocumentAnalyzer,
	minTextChars int,
) *ProcessDocumentUseCase {
	if minTextChars <= 0 {
		minTextChars = 1000
	}
	return &ProcessDocumentUseCase{
		files:        files,
		loans:        loans,
		docs:         docs,
		extractor:    extractor,
		analyzer:     analyzer,
		minTextChars: minTextChars,
	}
}

// ProcessByID runs the pipeline for one uploaded file: extract text,
// analyze, derive the risk score, synthesize and persist the loan
// record. Any stage failure marks the file errored and persists no
// loan.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, fileID string) error {
	file, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("fetch file by id: %w", err)
	}

	if err := uc.runPipeline(ctx, file); err != nil {
		if failErr := uc.markFailed(ctx, fileID, err); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", err, failErr)
		}
		return err
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, file *domain.UploadedFile) error {
	if err := uc.advance(ctx, file, domain.FileParsing, 30); err != nil {
		return err
	}

	text, err := uc.extractor.Extract(ctx, file)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if n := utf8.RuneCountInString(text); n < uc.minTextChars {
		return domain.WrapErrorf(domain.ErrInsufficientText, "extract text",
			"%d chars extracted, need %d; document may be scanned or image-only", n, uc.minTextChars)
	}

	if err := uc.advance(ctx, file, domain.FileAnalyzing, 50); err != nil {
		return err
	}

	analysis, err := uc.analyzer.AnalyzeDocument(ctx, file.Name, text)
	if err != nil {
		return fmt.Errorf("analyze document: %w", err)
	}

	if err := uc.files.UpdateStatus(ctx, file.ID, domain.FileAnalyzing, 70, ""); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	data := &domain.DocumentData{
		FileID:    file.ID,
		Sections:  analysis.Sections,
		Metrics:   analysis.Metrics,
		RawText:   text,
		RiskScore: domain.RiskScore(analysis.WarningCount()),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.docs.Put(ctx, data); err != nil {
		return fmt.Errorf("store document data: %w", err)
	}

	loan, err := uc.synthesizeLoan(ctx, file, analysis)
	if err != nil {
		return err
	}
	if err := uc.loans.Upsert(ctx, loan); err != nil {
		return fmt.Errorf("persist loan: %w", err)
	}

	if err := uc.files.LinkLoan(ctx, file.ID, loan.ID, 1); err != nil {
		return fmt.Errorf("link loan to file: %w", err)
	}
	if err := uc.advance(ctx, file, domain.FileComplete, 100); err != nil {
		return err
	}
	return nil
}

func (uc *ProcessDocumentUseCase) synthesizeLoan(ctx context.Context, file *domain.UploadedFile, analysis domain.Analysis) (*domain.Loan, error) {
	existing, err := uc.loans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans for id allocation: %w", err)
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:     fmt.Sprintf("LN-%d-%03d", now.Year(), len(existing)+1),
		Status: domain.LoanComplete,

		Borrower:       placeholderField(placeholderBorrower),
		Lenders:        domain.Field[[]string]{Value: []string{}, Confidence: placeholderConfidence},
		FacilityType:   placeholderField(placeholderFacilityType),
		Principal:      metricsField(analysis.Metrics.Principal),
		Currency:       placeholderField(placeholderCurrency),
		InterestMargin: metricsField(analysis.Metrics.InterestRate),
		MaturityDate:   placeholderField(placeholderMaturity),

		RepaymentSchedule: placeholderField(placeholderRepayment),
		ArrangementFee:    placeholderField(placeholderArrangement),
		CommitmentFee:     placeholderField(placeholderCommitment),
		PrepaymentTerms:   placeholderField(placeholderPrepayment),

		Covenants:            domain.Field[[]domain.Covenant]{Value: []domain.Covenant{}, Confidence: placeholderConfidence},
		ReportingObligations: domain.Field[[]string]{Value: []string{}, Confidence: placeholderConfidence},

		ESGLinked: domain.Field[bool]{Value: false, Confidence: placeholderConfidence},
		ESGTerms:  domain.Field[[]domain.ESGTerm]{Value: []domain.ESGTerm{}, Confidence: placeholderConfidence},

		Versions: []domain.LoanVersion{{
			Version:    1,
			UploadedAt: now,
			UploadedBy: file.UploadedBy,
			FileName:   file.Name,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return loan, nil
}

func (uc *ProcessDocumentUseCase) advance(ctx context.Context, file *domain.UploadedFile, to domain.FileStatus, progress int) error {
	if err := file.Advance(to); err != nil {
		return err
	}
	file.Progress = progress
	if err := uc.files.UpdateStatus(ctx, file.ID, to, progress, ""); err != nil {
		return fmt.Errorf("set status=%s: %w", to, err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, fileID string, cause error) error {
	if cause == nil {
		return nil
	}
	return uc.files.UpdateStatus(ctx, fileID, domain.FileError, 0, cause.Error())
}

func placeholderField(value string) domain.Field[string] {
	return domain.Field[string]{Value: value, Confidence: placeholderConfidence}
}

func metricsField(value string) domain.Field[string] {
	return domain.Field[string]{Value: value, Confidence: metricsConfidence}
}

package ports

import (
	"context"
	"io"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload
// orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType, uploadedBy string, size int64, body io.Reader) (*domain.UploadedFile, error)
}

// DocumentProcessor runs the ingestion pipeline for an uploaded file.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, fileID string) error
}

// DocumentChat answers questions about an analyzed document.
type DocumentChat interface {
	Ask(ctx context.Context, fileID, question string) (*domain.ChatMessage, error)
	Transcript(ctx context.Context, fileID string) ([]domain.ChatMessage, error)
}

// LoanFilter carries search/filter criteria for the loan directory.
type LoanFilter struct {
	Query        string
	Currency     string
	FacilityType string
	ESGLinked    *bool
	MinMarginBps int
	MaxMarginBps int
}

// LoanSearcher filters the loan collection.
type LoanSearcher interface {
	Search(ctx context.Context, filter LoanFilter) ([]domain.Loan, error)
}

// FieldDiff is one row of a side-by-side loan comparison.
type FieldDiff struct {
	Label     string `json:"label"`
	Left      string `json:"left"`
	Right     string `json:"right"`
	Different bool   `json:"different"`
}

// LoanComparer builds field-by-field comparisons of two loans.
type LoanComparer interface {
	Compare(ctx context.Context, leftID, rightID string) ([]FieldDiff, error)
}

// LoanExporter renders a loan as a downloadable document.
type LoanExporter interface {
	ExportJSON(ctx context.Context, loanID string) ([]byte, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

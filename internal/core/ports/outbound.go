package ports

import (
	"context"
	"io"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// FileRepository persists uploaded-file pipeline state.
type FileRepository interface {
	Create(ctx context.Context, file *domain.UploadedFile) error
	GetByID(ctx context.Context, id string) (*domain.UploadedFile, error)
	List(ctx context.Context) ([]domain.UploadedFile, error)
	UpdateStatus(ctx context.Context, id string, status domain.FileStatus, progress int, errMessage string) error
	LinkLoan(ctx context.Context, id, loanID string, version int) error
	Remove(ctx context.Context, id string) error
}

// LoanStore is the durable loan record collection. List seeds the
// built-in example records when no stored value exists; Upsert
// replaces by id or prepends new records most-recent-first.
type LoanStore interface {
	List(ctx context.Context) ([]domain.Loan, error)
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	Upsert(ctx context.Context, loan *domain.Loan) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// DocumentDataStore keeps per-file analysis working sets and chat
// transcripts, separate from the durable loan collection.
type DocumentDataStore interface {
	Put(ctx context.Context, data *domain.DocumentData) error
	Get(ctx context.Context, fileID string) (*domain.DocumentData, error)
	AppendMessage(ctx context.Context, msg domain.ChatMessage) error
	Transcript(ctx context.Context, fileID string) ([]domain.ChatMessage, error)
	Clear(ctx context.Context, fileID string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, fileID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, file *domain.UploadedFile) (string, error)
}

// DocumentAnalyzer produces structured analyses and answers follow-up
// questions about a document.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, filename, text string) (domain.Analysis, error)
	AnswerQuestion(ctx context.Context, question string, sections []domain.Section, rawText string) (string, error)
}

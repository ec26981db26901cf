package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

type IngestDocumentUseCase struct {
	files   ports.FileRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	files ports.FileRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		files:   files,
		storage: storage,
		queue:   queue,
	}
}

// Upload accepts a PDF or plain-text agreement, stores the source bytes
// and queues the document for processing. Unsupported types are
// rejected before any pipeline state is created.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mimeType, uploadedBy string,
	size int64,
	body io.Reader,
) (*domain.UploadedFile, error) {
	if !supportedMimeType(mimeType, filename) {
		return nil, domain.WrapErrorf(domain.ErrUnsupportedFileType, "upload", "mime type %q for %q", mimeType, filename)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	file := &domain.UploadedFile{
		ID:          id,
		Name:        filename,
		Size:        size,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.FileUploading,
		Progress:    0,
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("create file record: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, file.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return file, nil
}

func supportedMimeType(mimeType, filename string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "application/pdf", "text/plain":
		return true
	}
	// Browsers occasionally send generic types for .txt drops.
	ext := strings.ToLower(filepath.Ext(filename))
	return (mt == "" || mt == "application/octet-stream") && (ext == ".pdf" || ext == ".txt")
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}

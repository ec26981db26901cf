package doctext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

// Extractor pulls plain text out of stored agreements. PDF and
// UTF-8 text are supported; the actual format is sniffed from the
// bytes, not trusted from the declared mime type.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, file *domain.UploadedFile) (string, error) {
	reader, err := e.storage.Open(ctx, file.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	if len(raw) == 0 {
		return "", domain.WrapErrorf(domain.ErrExtractionFailed, "extract text", "empty file %s", file.Name)
	}

	if isPDF(raw) {
		text, err := extractPDF(raw)
		if err != nil {
			return "", domain.WrapError(domain.ErrExtractionFailed, "extract pdf", err)
		}
		return text, nil
	}

	if !utf8.Valid(raw) {
		return "", domain.WrapErrorf(domain.ErrExtractionFailed, "extract text",
			"unrecognized binary format for %s", file.Name)
	}
	// Text files pass through byte for byte; whitespace is part of the
	// document.
	return string(raw), nil
}

// isPDF sniffs the magic bytes; uploads occasionally carry a pdf mime
// type over non-pdf content.
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

// extractPDF walks the document page by page so page boundaries
// survive as blank lines in the output.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		// Blank pages still occupy a segment so an N-page document
		// always yields N blank-line-joined segments.
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return strings.Join(pages, "\n\n"), nil
}

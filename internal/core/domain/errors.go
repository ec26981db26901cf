package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExtractionFailed    = errors.New("text extraction failed")
	ErrInsufficientText    = errors.New("insufficient extracted text")
	ErrMalformedResponse   = errors.New("malformed analysis response")
	ErrAnalysisUnavailable = errors.New("analysis service unavailable")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrQueueUnavailable    = errors.New("queue unavailable")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func WrapErrorf(kind error, operation, format string, args ...any) error {
	return WrapError(kind, operation, fmt.Errorf(format, args...))
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

package httpadapter

import (
	"net/http"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrLoanNotFound),
		domain.IsKind(err, domain.ErrFileNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInsufficientText),
		domain.IsKind(err, domain.ErrExtractionFailed),
		domain.IsKind(err, domain.ErrMalformedResponse):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrAnalysisUnavailable),
		domain.IsKind(err, domain.ErrStorageUnavailable),
		domain.IsKind(err, domain.ErrQueueUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func invalidParam(name, value string) error {
	return domain.WrapErrorf(domain.ErrInvalidInput, "parse query", "param %s=%q", name, value)
}

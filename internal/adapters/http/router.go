package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
	"github.com/edgeledger/loanintel/internal/core/usecase"
	"github.com/edgeledger/loanintel/internal/infrastructure/export"
	"github.com/edgeledger/loanintel/internal/observability/metrics"
)

type Router struct {
	ingestUC  *usecase.IngestDocumentUseCase
	chatUC    *usecase.DocumentChatUseCase
	searchUC  *usecase.SearchLoansUseCase
	compareUC *usecase.CompareLoansUseCase
	exporter  *export.Service

	files   ports.FileRepository
	loans   ports.LoanStore
	docs    ports.DocumentDataStore
	storage ports.ObjectStorage
	metrics *metrics.HTTPMetrics
}

func NewRouter(
	ingestUC *usecase.IngestDocumentUseCase,
	chatUC *usecase.DocumentChatUseCase,
	searchUC *usecase.SearchLoansUseCase,
	compareUC *usecase.CompareLoansUseCase,
	exporter *export.Service,
	files ports.FileRepository,
	loans ports.LoanStore,
	docs ports.DocumentDataStore,
	storage ports.ObjectStorage,
	httpMetrics *metrics.HTTPMetrics,
) *Router {
	return &Router{
		ingestUC:  ingestUC,
		chatUC:    chatUC,
		searchUC:  searchUC,
		compareUC: compareUC,
		exporter:  exporter,
		files:     files,
		loans:     loans,
		docs:      docs,
		storage:   storage,
		metrics:   httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)

	mux.HandleFunc("POST /v1/files", rt.uploadFile)
	mux.HandleFunc("GET /v1/files", rt.listFiles)
	mux.HandleFunc("GET /v1/files/{id}", rt.getFile)
	mux.HandleFunc("DELETE /v1/files/{id}", rt.deleteFile)
	mux.HandleFunc("GET /v1/files/{id}/analysis", rt.getAnalysis)
	mux.HandleFunc("DELETE /v1/files/{id}/analysis", rt.clearAnalysis)
	mux.HandleFunc("POST /v1/files/{id}/chat", rt.askQuestion)
	mux.HandleFunc("GET /v1/files/{id}/chat", rt.getTranscript)

	mux.HandleFunc("GET /v1/loans", rt.listLoans)
	mux.HandleFunc("DELETE /v1/loans", rt.clearLoans)
	mux.HandleFunc("GET /v1/loans/compare", rt.compareLoans)
	mux.HandleFunc("GET /v1/loans/export", rt.exportWorkbook)
	mux.HandleFunc("GET /v1/loans/{id}", rt.getLoan)
	mux.HandleFunc("DELETE /v1/loans/{id}", rt.deleteLoan)
	mux.HandleFunc("GET /v1/loans/{id}/export", rt.exportLoan)

	var handler http.Handler = mux
	handler = accessLogMiddleware(handler, rt.metrics)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadFile(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	uploaded, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		strings.TrimSpace(r.FormValue("uploaded_by")),
		fileHeader.Size,
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.metrics.RecordUpload("api", uploaded.MimeType)
	writeJSON(w, http.StatusAccepted, uploaded)
}

func (rt *Router) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := rt.files.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if files == nil {
		files = []domain.UploadedFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (rt *Router) getFile(w http.ResponseWriter, r *http.Request) {
	file, err := rt.files.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) deleteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	file, err := rt.files.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := rt.files.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	// Drop the analysis working set and the stored source bytes
	// alongside the file record.
	if err := rt.docs.Clear(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if err := rt.storage.Remove(r.Context(), file.StoragePath); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	data, err := rt.docs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if data == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no analysis for file"))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (rt *Router) clearAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := rt.docs.Clear(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) askQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}

	reply, err := rt.chatUC.Ask(r.Context(), r.PathValue("id"), req.Question)
	if err != nil {
		rt.metrics.RecordChatQuestion("api", "error")
		writeError(w, err)
		return
	}
	rt.metrics.RecordChatQuestion("api", "answered")
	writeJSON(w, http.StatusOK, reply)
}

func (rt *Router) getTranscript(w http.ResponseWriter, r *http.Request) {
	msgs, err := rt.chatUC.Transcript(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (rt *Router) listLoans(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLoanFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	loans, err := rt.searchUC.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (rt *Router) clearLoans(w http.ResponseWriter, r *http.Request) {
	if err := rt.loans.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) getLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := rt.loans.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (rt *Router) deleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := rt.loans.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) compareLoans(w http.ResponseWriter, r *http.Request) {
	left := r.URL.Query().Get("left")
	right := r.URL.Query().Get("right")
	if left == "" || right == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query params 'left' and 'right' are required"))
		return
	}

	rows, err := rt.compareUC.Compare(r.Context(), left, right)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (rt *Router) exportLoan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b, err := rt.exporter.ExportJSON(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordExport("api", "json")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (rt *Router) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	b, err := rt.exporter.ExportXLSX(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordExport("api", "xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="loans-export.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func parseLoanFilter(r *http.Request) (ports.LoanFilter, error) {
	q := r.URL.Query()
	filter := ports.LoanFilter{
		Query:        q.Get("q"),
		Currency:     q.Get("currency"),
		FacilityType: q.Get("facility_type"),
	}

	if raw := q.Get("esg_linked"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return ports.LoanFilter{}, invalidParam("esg_linked", raw)
		}
		filter.ESGLinked = &v
	}
	if raw := q.Get("min_margin_bps"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return ports.LoanFilter{}, invalidParam("min_margin_bps", raw)
		}
		filter.MinMarginBps = v
	}
	if raw := q.Get("max_margin_bps"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return ports.LoanFilter{}, invalidParam("max_margin_bps", raw)
		}
		filter.MaxMarginBps = v
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorBody(err.Error()))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

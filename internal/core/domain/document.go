package domain

import "time"

type FileStatus string

const (
	FileUploading FileStatus = "uploading"
	FileParsing   FileStatus = "parsing"
	FileAnalyzing FileStatus = "analyzing"
	FileComplete  FileStatus = "complete"
	FileError     FileStatus = "error"
)

// fileTransitions enumerates the legal status moves. Terminal states
// have no outgoing edges; error is reachable from any live state.
var fileTransitions = map[FileStatus][]FileStatus{
	FileUploading: {FileParsing, FileError},
	FileParsing:   {FileAnalyzing, FileError},
	FileAnalyzing: {FileComplete, FileError},
}

func (s FileStatus) CanTransition(to FileStatus) bool {
	for _, next := range fileTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s FileStatus) Terminal() bool {
	return s == FileComplete || s == FileError
}

// UploadedFile tracks one document through the ingestion pipeline.
// Progress bands: uploading 0, parsing 30-50, analyzing 50-70,
// complete 100.
type UploadedFile struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Size         int64      `json:"size"`
	MimeType     string     `json:"mime_type"`
	StoragePath  string     `json:"storage_path"`
	Status       FileStatus `json:"status"`
	Progress     int        `json:"progress"`
	LoanID       string     `json:"loan_id,omitempty"`
	Version      int        `json:"version,omitempty"`
	UploadedBy   string     `json:"uploaded_by,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Advance moves the file to the given status, rejecting transitions the
// FSM does not allow (error -> complete, any move out of a terminal
// state).
func (f *UploadedFile) Advance(to FileStatus) error {
	if !f.Status.CanTransition(to) {
		return WrapErrorf(ErrInvalidInput, "advance file status", "illegal transition %s -> %s", f.Status, to)
	}
	f.Status = to
	return nil
}

type SectionStatus string

const (
	SectionOK      SectionStatus = "ok"
	SectionWarning SectionStatus = "warning"
)

// Section is one topical summary unit produced by document analysis.
type Section struct {
	Title   string        `json:"title"`
	Summary string        `json:"summary"`
	Status  SectionStatus `json:"status"`
	Content string        `json:"content"`
}

type GraphPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Metrics holds headline figures as display strings, not normalized
// numerics.
type Metrics struct {
	Principal    string       `json:"principal"`
	InterestRate string       `json:"interestRate"`
	Term         string       `json:"term"`
	Covenants    int          `json:"covenants"`
	GraphData    []GraphPoint `json:"graphData,omitempty"`
}

// Analysis is the structured result of one full-document analysis call.
type Analysis struct {
	Sections []Section `json:"sections"`
	Metrics  Metrics   `json:"metrics"`
}

// WarningCount reports how many sections were flagged.
func (a Analysis) WarningCount() int {
	n := 0
	for _, s := range a.Sections {
		if s.Status == SectionWarning {
			n++
		}
	}
	return n
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	FileID    string    `json:"file_id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentData is the analysis working set for one uploaded file:
// sections, metrics, raw extracted text and the derived risk score. It
// lives apart from the durable loan collection and is cleared on
// explicit user action, not on loan writes.
type DocumentData struct {
	FileID    string    `json:"file_id"`
	Sections  []Section `json:"sections"`
	Metrics   Metrics   `json:"metrics"`
	RawText   string    `json:"raw_text"`
	RiskScore int       `json:"risk_score"`
	CreatedAt time.Time `json:"created_at"`
}

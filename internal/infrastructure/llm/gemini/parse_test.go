package gemini

import (
	"testing"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

const validAnalysisJSON = `{
  "sections": [
    {"title": "Parties", "summary": "Borrower and lender group", "status": "ok", "content": "..."},
    {"title": "Interest Rate", "summary": "12% fixed rate, above typical market", "status": "warning", "content": "..."}
  ],
  "metrics": {
    "principal": "$250M",
    "interestRate": "12%",
    "term": "5 years",
    "covenants": 4,
    "graphData": [
      {"name": "This Loan", "value": 12.0},
      {"name": "Market Avg", "value": 7.0}
    ]
  }
}`

func TestParseAnalysis(t *testing.T) {
	analysis, err := parseAnalysis(validAnalysisJSON)
	if err != nil {
		t.Fatalf("parseAnalysis() error = %v", err)
	}
	if len(analysis.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(analysis.Sections))
	}
	if analysis.WarningCount() != 1 {
		t.Fatalf("warnings = %d, want 1", analysis.WarningCount())
	}
	if analysis.Metrics.Covenants != 4 {
		t.Fatalf("covenants = %d, want 4", analysis.Metrics.Covenants)
	}
	if len(analysis.Metrics.GraphData) != 2 || analysis.Metrics.GraphData[1].Value != 7.0 {
		t.Fatalf("graph data = %+v", analysis.Metrics.GraphData)
	}
}

func TestParseAnalysisStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validAnalysisJSON + "\n```"
	analysis, err := parseAnalysis(fenced)
	if err != nil {
		t.Fatalf("parseAnalysis() error = %v", err)
	}
	if len(analysis.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(analysis.Sections))
	}

	bareFence := "```\n" + validAnalysisJSON + "\n```"
	if _, err := parseAnalysis(bareFence); err != nil {
		t.Fatalf("parseAnalysis() bare fence error = %v", err)
	}
}

func TestParseAnalysisRejectsNonJSON(t *testing.T) {
	_, err := parseAnalysis("I could not process this document, sorry.")
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseAnalysisRejectsMissingMetrics(t *testing.T) {
	_, err := parseAnalysis(`{"sections": [{"title": "A", "summary": "B", "status": "ok"}]}`)
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseAnalysisRejectsBadStatus(t *testing.T) {
	_, err := parseAnalysis(`{
	  "sections": [{"title": "A", "summary": "B", "status": "critical"}],
	  "metrics": {"principal": "", "interestRate": "", "term": "", "covenants": 0}
	}`)
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseAnalysisRejectsEmptySections(t *testing.T) {
	_, err := parseAnalysis(`{
	  "sections": [],
	  "metrics": {"principal": "", "interestRate": "", "term": "", "covenants": 0}
	}`)
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

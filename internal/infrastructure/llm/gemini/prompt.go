package gemini

import (
	"fmt"
	"strings"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

func buildAnalysisPrompt(filename, text string, maxChars int, marketAvgRate float64) string {
	doc := text
	if len(doc) > maxChars {
		doc = doc[:maxChars]
	}

	var sb strings.Builder
	sb.WriteString(`You are a loan agreement analyst. Analyze the following loan document and produce a structured review.

Break the document into 15-20 or more topical sections. Cover at least:
parties, recitals and definitions, facility and purpose, principal amount, interest rate and margin, repayment schedule, maturity, fees (arrangement, commitment, agency), prepayment terms, representations and warranties, financial covenants, negative covenants, reporting obligations, events of default, penalties, security and guarantees, assignment and transfer, governing law, ESG or sustainability provisions if present.

Mark a section with status "warning" when it contains unusual or risky terms, for example:
- interest rates above 10%
- unusually strict financial covenants
- severe default penalties or acceleration triggers
Otherwise use status "ok".

Also extract headline metrics: principal, interest rate, term, and the number of covenants. Include graphData comparing this loan's interest rate against the market average of `)
	sb.WriteString(fmt.Sprintf("%.1f%%", marketAvgRate))
	sb.WriteString(`.

Respond with a single JSON object, no markdown, in exactly this shape:
{
  "sections": [
    {"title": "...", "summary": "...", "status": "ok" | "warning", "content": "..."}
  ],
  "metrics": {
    "principal": "...",
    "interestRate": "...",
    "term": "...",
    "covenants": 0,
    "graphData": [
      {"name": "This Loan", "value": 0.0},
      {"name": "Market Avg", "value": `)
	sb.WriteString(fmt.Sprintf("%.1f", marketAvgRate))
	sb.WriteString(`}
    ]
  }
}

Document name: `)
	sb.WriteString(filename)
	sb.WriteString("\n\nDocument text:\n\"\"\"\n")
	sb.WriteString(doc)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

func buildChatPrompt(question string, sections []domain.Section, rawText string, maxContextChars int) string {
	context := rawText
	if len(context) > maxContextChars {
		context = context[:maxContextChars]
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful assistant answering questions about a specific loan agreement.\n\n")

	if len(sections) > 0 {
		sb.WriteString("Document section summaries:\n")
		for _, s := range sections {
			sb.WriteString("- ")
			sb.WriteString(s.Title)
			if s.Status == domain.SectionWarning {
				sb.WriteString(" [flagged]")
			}
			sb.WriteString(": ")
			sb.WriteString(s.Summary)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Document text (may be truncated):\n\"\"\"\n")
	sb.WriteString(context)
	sb.WriteString("\n\"\"\"\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer concisely in plain text, grounded only in the document above.")
	return sb.String()
}

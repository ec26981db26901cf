package gemini

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// analysisSchema gates model output before it reaches the domain:
// sections must be non-empty with valid statuses, metrics must be
// present. Extra keys are tolerated; models pad responses.
const analysisSchema = `{
  "type": "object",
  "required": ["sections", "metrics"],
  "properties": {
    "sections": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "summary", "status"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "summary": {"type": "string"},
          "status": {"enum": ["ok", "warning"]},
          "content": {"type": "string"}
        }
      }
    },
    "metrics": {
      "type": "object",
      "required": ["principal", "interestRate", "term", "covenants"],
      "properties": {
        "principal": {"type": "string"},
        "interestRate": {"type": "string"},
        "term": {"type": "string"},
        "covenants": {"type": "integer", "minimum": 0},
        "graphData": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "value"],
            "properties": {
              "name": {"type": "string"},
              "value": {"type": "number"}
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("analysis.json", analysisSchema)

func parseAnalysis(raw string) (domain.Analysis, error) {
	cleaned := stripCodeFences(raw)

	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return domain.Analysis{}, domain.WrapError(domain.ErrMalformedResponse, "parse analysis", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return domain.Analysis{}, domain.WrapError(domain.ErrMalformedResponse, "validate analysis", err)
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return domain.Analysis{}, domain.WrapError(domain.ErrMalformedResponse, "decode analysis", err)
	}
	return analysis, nil
}

// stripCodeFences removes a surrounding markdown fence; models often
// wrap JSON in ```json blocks despite instructions.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

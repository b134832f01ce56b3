package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CandidateSchema validates the JSON array the LLM returns. Malformed
// output is rejected here, at the single deserialization point, instead of
// leaking loosely-typed maps into the pipeline.
const CandidateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "summary", "importance"],
    "properties": {
      "type": {
        "type": "string",
        "minLength": 1,
        "description": "Free-form label describing the memory's nature"
      },
      "summary": {
        "type": "string",
        "minLength": 1,
        "description": "Concise 1-2 sentence summary"
      },
      "importance": {
        "type": "number",
        "minimum": 0,
        "maximum": 1
      },
      "tags": {
        "type": "array",
        "items": {
          "type": "string"
        }
      },
      "original_type": {
        "type": "string"
      },
      "original_time": {
        "type": "string"
      }
    }
  }
}`

// Candidate is one memory the LLM proposes for long-term storage.
type Candidate struct {
	Category         string   `json:"type"`
	Summary          string   `json:"summary"`
	Importance       float64  `json:"importance"`
	Tags             []string `json:"tags,omitempty"`
	OriginalCategory string   `json:"original_type,omitempty"`
	OriginalTime     string   `json:"original_time,omitempty"`
}

var codeFenceRe = regexp.MustCompile("```(?:json)?\n?")

// ParseCandidates extracts and validates the candidate array from raw LLM
// output, tolerating markdown code fences and surrounding prose.
func ParseCandidates(output string) ([]Candidate, error) {
	cleaned := codeFenceRe.ReplaceAllString(output, "")

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in model output")
	}
	raw := cleaned[start : end+1]

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(CandidateSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate model output: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("model output failed validation: %s", strings.Join(problems, "; "))
	}

	var candidates []Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}
	return candidates, nil
}

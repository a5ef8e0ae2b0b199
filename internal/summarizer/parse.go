package summarizer

import (
	"encoding/json"
	"fmt"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// objects returns every top-level balanced {...} span of text in order.
// Braces inside JSON strings are ignored. An opening brace that is never
// closed is an error.
func objects(text string) ([]string, error) {
	var (
		out      []string
		depth    int
		start    int
		inString bool
		escaped  bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if depth > 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, text[start:i+1])
			}
		}
	}

	if depth > 0 {
		return out, fmt.Errorf("%w: unbalanced braces in response", ErrMalformedResponse)
	}
	return out, nil
}

type rawSummary struct {
	Context     *string   `json:"context"`
	KeyPoints   *[]string `json:"keyPoints"`
	Commitments *[]string `json:"commitments"`
	NextSteps   *[]string `json:"nextSteps"`
	Concerns    []string  `json:"concerns"`
}

func decodeSummary(obj string) (models.SummaryResult, error) {
	var raw rawSummary
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return models.SummaryResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case raw.Context == nil:
		return models.SummaryResult{}, fmt.Errorf("%w: missing context", ErrMalformedResponse)
	case raw.KeyPoints == nil:
		return models.SummaryResult{}, fmt.Errorf("%w: missing keyPoints", ErrMalformedResponse)
	case raw.Commitments == nil:
		return models.SummaryResult{}, fmt.Errorf("%w: missing commitments", ErrMalformedResponse)
	case raw.NextSteps == nil:
		return models.SummaryResult{}, fmt.Errorf("%w: missing nextSteps", ErrMalformedResponse)
	}

	result := models.SummaryResult{
		Context:     *raw.Context,
		KeyPoints:   *raw.KeyPoints,
		Commitments: *raw.Commitments,
		NextSteps:   *raw.NextSteps,
		Concerns:    raw.Concerns,
	}
	return result.Clone(), nil
}

// parseSummary returns the first object in text that has the summary shape.
func parseSummary(text string) (models.SummaryResult, error) {
	candidates, scanErr := objects(text)
	if len(candidates) == 0 {
		if scanErr != nil {
			return models.SummaryResult{}, scanErr
		}
		return models.SummaryResult{}, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var firstErr error
	for _, c := range candidates {
		summary, err := decodeSummary(c)
		if err == nil {
			return summary, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return models.SummaryResult{}, firstErr
}

package models

// SummaryResult is the structured executive summary of a meeting.
type SummaryResult struct {
	Context     string   `json:"context"`
	KeyPoints   []string `json:"keyPoints"`
	Commitments []string `json:"commitments"`
	NextSteps   []string `json:"nextSteps"`
	Concerns    []string `json:"concerns"`
}

// Clone returns a deep copy so holders never share slices.
func (s SummaryResult) Clone() SummaryResult {
	return SummaryResult{
		Context:     s.Context,
		KeyPoints:   cloneStrings(s.KeyPoints),
		Commitments: cloneStrings(s.Commitments),
		NextSteps:   cloneStrings(s.NextSteps),
		Concerns:    cloneStrings(s.Concerns),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

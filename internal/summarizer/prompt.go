package summarizer

import (
	"fmt"

	"google.golang.org/genai"
)

const summaryPrompt = `You analyse transcripts of meetings between the %[1]s customer experience team and its clients. Extract actionable insights and a structured analysis that supports decision making.

Meetings may be commercial (negotiation, pricing, contracts), technical support, consultative, follow-up or relationship building.

Analyse the transcript and identify:
1. Participants and their roles
2. The type of meeting
3. Client needs and pain points
4. Sentiment and satisfaction
5. Commitments and agreements
6. Objections and concerns
7. Commercial opportunities
8. Risks and red flags

Return ONLY a valid JSON object with exactly this structure:
{
  "context": "Executive summary of the meeting (3-5 lines)",
  "keyPoints": ["key insight 1", "key insight 2", "key insight 3", "key insight 4", "key insight 5"],
  "commitments": ["action | owner | date", "action 2 | owner | date"],
  "nextSteps": ["recommended next step 1", "next step 2", "next step 3"],
  "concerns": ["identified risk 1", "concern 2"]
}

Principles:
- Objectivity: separate facts from interpretation
- Actionability: prioritise insights that enable decisions
- Accuracy: do not invent anything that is not in the transcript
- Urgency: flag clearly what needs immediate attention

Transcript:
%[2]s

Reply with the JSON only, no additional text.`

func buildPrompt(brand, transcript string) string {
	return fmt.Sprintf(summaryPrompt, brand, transcript)
}

var stringList = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

// summarySchema constrains structured output to the SummaryResult shape.
var summarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"context":     {Type: genai.TypeString},
		"keyPoints":   stringList,
		"commitments": stringList,
		"nextSteps":   stringList,
		"concerns":    stringList,
	},
	Required:         []string{"context", "keyPoints", "commitments", "nextSteps", "concerns"},
	PropertyOrdering: []string{"context", "keyPoints", "commitments", "nextSteps", "concerns"},
}

package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// Summarizer turns a meeting transcript into a structured executive summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (models.SummaryResult, error)
}

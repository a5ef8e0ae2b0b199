package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// Pipeline sequences capture or upload, transcription or extraction, and
// summarization. Every method is safe for concurrent callers; a request
// that would overlap an in-flight stage fails with ErrBusy.
type Pipeline interface {
	StartCapture(ctx context.Context) error
	StopCapture(ctx context.Context) (Result, error)
	SubmitFile(ctx context.Context, file models.SourceFile) (Result, error)

	// SetTranscript replaces the transcript with a manual edit. It never
	// triggers summarization.
	SetTranscript(text string) error
	// ClearTranscript empties the transcript and resets progress. The
	// current summary is kept.
	ClearTranscript() error
	// Regenerate summarizes the current transcript again.
	Regenerate(ctx context.Context) (models.SummaryResult, error)

	Snapshot() models.Snapshot
	// Subscribe delivers the current snapshot and then every change. Slow
	// subscribers miss intermediate snapshots. cancel closes the channel.
	Subscribe() (updates <-chan models.Snapshot, cancel func())
}

// Result is what a run produced. Summary is nil when summarization did not
// succeed.
type Result struct {
	RunID       string
	Source      string
	Transcript  string
	Summary     *models.SummaryResult
	Fingerprint string
	Backend     string
	Duration    time.Duration
}

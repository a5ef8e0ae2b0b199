package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// ProgressFunc receives coarse progress milestones (0-100). They exist for
// feedback only and are not proportional to real work.
type ProgressFunc func(percent int)

// Transcriber turns an audio payload into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, payload models.AudioPayload, progress ProgressFunc) (string, error)
	Backend() string
}

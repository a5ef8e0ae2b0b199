package capture

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// Recorder captures microphone audio into a single payload.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (models.AudioPayload, error)
	Recording() bool
	Elapsed() time.Duration
}

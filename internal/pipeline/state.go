package pipeline

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

var (
	ErrBusy              = errors.New("another operation is in progress")
	ErrInvalidTransition = errors.New("invalid pipeline transition")
)

var fromReady = []models.PipelineState{models.StateRecording, models.StateUploading, models.StateSummarizing, models.StateIdle}

// transitions lists every legal move. Ready states may start a capture, an
// upload or a regeneration.
var transitions = map[models.PipelineState][]models.PipelineState{
	models.StateIdle:             fromReady,
	models.StateDone:             fromReady,
	models.StateFailed:           fromReady,
	models.StateRecording:        {models.StateTranscribing, models.StateFailed},
	models.StateUploading:        {models.StateTranscribing, models.StateExtracting, models.StateFailed},
	models.StateTranscribing:     {models.StateSummaryTriggered, models.StateFailed},
	models.StateExtracting:       {models.StateSummaryTriggered, models.StateFailed},
	models.StateSummaryTriggered: {models.StateSummarizing, models.StateFailed},
	models.StateSummarizing:      {models.StateDone, models.StateFailed},
}

func canTransition(from, to models.PipelineState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// setStateLocked moves to the next state and broadcasts. p.mu must be held.
func (p *implPipeline) setStateLocked(to models.PipelineState) error {
	from := p.snap.State
	if !canTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	p.snap.State = to
	p.broadcastLocked()
	return nil
}

func (p *implPipeline) setState(to models.PipelineState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setStateLocked(to)
}

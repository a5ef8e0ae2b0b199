package models

import "time"

// PipelineState is the orchestrator's single explicit state.
type PipelineState string

const (
	StateIdle             PipelineState = "idle"
	StateRecording        PipelineState = "recording"
	StateUploading        PipelineState = "uploading"
	StateExtracting       PipelineState = "extracting"
	StateTranscribing     PipelineState = "transcribing"
	StateSummaryTriggered PipelineState = "summary_triggered"
	StateSummarizing      PipelineState = "summarizing"
	StateDone             PipelineState = "done"
	StateFailed           PipelineState = "failed"
)

// Ready reports whether a new capture, upload or regeneration may start.
func (s PipelineState) Ready() bool {
	return s == StateIdle || s == StateDone || s == StateFailed
}

// ProducingTranscript reports whether the transcript is being replaced.
func (s PipelineState) ProducingTranscript() bool {
	switch s {
	case StateRecording, StateUploading, StateExtracting, StateTranscribing:
		return true
	}
	return false
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Snapshot is a point-in-time copy of orchestrator state.
type Snapshot struct {
	State      PipelineState  `json:"state"`
	Progress   int            `json:"progress"`
	Transcript string         `json:"transcript"`
	Summary    *SummaryResult `json:"summary,omitempty"`
	Notice     *Notice        `json:"notice,omitempty"`
	RunID      string         `json:"run_id,omitempty"`
	Source     string         `json:"source,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

package models

import (
	"testing"
	"time"
)

func TestSummaryResultClone(t *testing.T) {
	orig := SummaryResult{
		Context:   "ctx",
		KeyPoints: []string{"a", "b"},
	}
	c := orig.Clone()
	c.KeyPoints[0] = "changed"

	if orig.KeyPoints[0] != "a" {
		t.Errorf("Clone shares KeyPoints backing array")
	}
	if c.Concerns == nil {
		t.Errorf("Clone should normalise nil slices to empty")
	}
}

func TestAudioPayloadImmutable(t *testing.T) {
	raw := []byte{1, 2, 3}
	p := NewAudioPayload(raw, "audio/wav", time.Second)
	raw[0] = 9

	if p.Data()[0] != 1 {
		t.Error("payload shares caller buffer")
	}

	d := p.Data()
	d[1] = 9
	if p.Data()[1] != 2 {
		t.Error("Data() exposes internal buffer")
	}

	if p.Fingerprint() == "" {
		t.Error("Fingerprint() is empty")
	}
	if p.Size() != 3 || p.MIMEType() != "audio/wav" || p.Duration() != time.Second {
		t.Errorf("unexpected payload metadata: %d %s %s", p.Size(), p.MIMEType(), p.Duration())
	}
}

func TestPipelineStateHelpers(t *testing.T) {
	tests := []struct {
		state     PipelineState
		ready     bool
		producing bool
	}{
		{StateIdle, true, false},
		{StateDone, true, false},
		{StateFailed, true, false},
		{StateRecording, false, true},
		{StateUploading, false, true},
		{StateExtracting, false, true},
		{StateTranscribing, false, true},
		{StateSummaryTriggered, false, false},
		{StateSummarizing, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Ready(); got != tt.ready {
				t.Errorf("Ready() = %v, want %v", got, tt.ready)
			}
			if got := tt.state.ProducingTranscript(); got != tt.producing {
				t.Errorf("ProducingTranscript() = %v, want %v", got, tt.producing)
			}
		})
	}
}

func TestFileKindIsDocument(t *testing.T) {
	if KindAudio.IsDocument() {
		t.Error("audio should not be a document")
	}
	for _, k := range []FileKind{KindText, KindPDF, KindWord} {
		if !k.IsDocument() {
			t.Errorf("%s should be a document", k)
		}
	}
}

package models

import (
	"bytes"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/pkg/fingerprint"
)

// AudioPayload is a binary audio blob ready for transcription.
// It is immutable once built; Data returns a copy.
type AudioPayload struct {
	data        []byte
	mimeType    string
	duration    time.Duration
	fingerprint string
}

// NewAudioPayload copies data and computes its content fingerprint.
func NewAudioPayload(data []byte, mimeType string, duration time.Duration) AudioPayload {
	buf := make([]byte, len(data))
	copy(buf, data)

	sum, _ := fingerprint.FromReader(bytes.NewReader(buf))

	return AudioPayload{
		data:        buf,
		mimeType:    mimeType,
		duration:    duration,
		fingerprint: sum,
	}
}

func (p AudioPayload) Data() []byte {
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out
}

func (p AudioPayload) Size() int               { return len(p.data) }
func (p AudioPayload) MIMEType() string        { return p.mimeType }
func (p AudioPayload) Duration() time.Duration { return p.duration }
func (p AudioPayload) Fingerprint() string     { return p.fingerprint }
func (p AudioPayload) IsEmpty() bool           { return len(p.data) == 0 }

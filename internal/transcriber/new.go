package transcriber

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
)

// Progress milestones reported during a transcription.
const (
	ProgressEncoded  = 30
	ProgressResponse = 70
)

var ErrTranscription = errors.New("transcription failed")

// New selects the backend named in cfg.
func New(cfg config.TranscriptionConfig, log logger.Logger) (Transcriber, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case config.BackendElevenLabs, "":
		return newElevenLabs(cfg, httpClient, log), nil
	case config.BackendOpenAI:
		return newOpenAI(cfg, httpClient, log), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Backend)
	}
}

func report(progress ProgressFunc, percent int) {
	if progress != nil {
		progress(percent)
	}
}

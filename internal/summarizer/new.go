package summarizer

import (
	"net/http"
	"sync"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
)

type implSummarizer struct {
	cfg        config.GeminiConfig
	brand      string
	httpClient *http.Client
	logger     logger.Logger

	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the configured Gemini API
// keys when one runs out of quota.
func New(cfg config.GeminiConfig, brand string, log logger.Logger) Summarizer {
	return &implSummarizer{
		cfg:        cfg,
		brand:      brand,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}
}

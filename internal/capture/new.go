package capture

import (
	"sync"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/pkg/executor"
)

type implRecorder struct {
	cfg      config.CaptureConfig
	executor executor.Executor
	logger   logger.Logger

	mu      sync.Mutex
	session *session
}

// New creates a Recorder that captures through ffmpeg.
func New(cfg config.CaptureConfig, exec executor.Executor, log logger.Logger) Recorder {
	return &implRecorder{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

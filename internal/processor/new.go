package processor

import (
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/export"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
)

// busyRetry is how often a file waiting on a busy pipeline retries.
const busyRetry = 500 * time.Millisecond

type implProcessor struct {
	paths    config.PathsConfig
	model    string
	pipeline pipeline.Pipeline
	exporter export.Exporter
	logger   logger.Logger

	retry time.Duration
	now   func() time.Time
}

// New creates a Processor. model is only recorded in export metadata.
func New(paths config.PathsConfig, model string, p pipeline.Pipeline, exp export.Exporter, log logger.Logger) Processor {
	return &implProcessor{
		paths:    paths,
		model:    model,
		pipeline: p,
		exporter: exp,
		logger:   log,
		retry:    busyRetry,
		now:      time.Now,
	}
}

package httpapi

import (
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/export"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/observe"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
)

// Deps wires the API. Metrics defaults to observe.DefaultMetrics; Model is
// only used in export metadata.
type Deps struct {
	Pipeline pipeline.Pipeline
	Exporter export.Exporter
	Metrics  *observe.Metrics
	Logger   logger.Logger
	Model    string
	Checkers []Checker
	// OriginPatterns lists extra hosts allowed to open /api/events.
	OriginPatterns []string
}

type implAPI struct {
	pipeline       pipeline.Pipeline
	exporter       export.Exporter
	metrics        *observe.Metrics
	logger         logger.Logger
	model          string
	checkers       []Checker
	originPatterns []string
	now            func() time.Time
}

func New(deps Deps) API {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &implAPI{
		pipeline:       deps.Pipeline,
		exporter:       deps.Exporter,
		metrics:        metrics,
		logger:         deps.Logger,
		model:          deps.Model,
		checkers:       append([]Checker(nil), deps.Checkers...),
		originPatterns: deps.OriginPatterns,
		now:            time.Now,
	}
}

package pipeline

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/capture"
	"github.com/nguyentantai21042004/meeting-brief/internal/extractor"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/internal/observe"
	"github.com/nguyentantai21042004/meeting-brief/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-brief/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-brief/pkg/semaphore"
)

// progressResetDelay is how long a finished progress bar stays visible.
const progressResetDelay = time.Second

// Deps are the stages the pipeline drives. Metrics defaults to
// observe.DefaultMetrics.
type Deps struct {
	Recorder    capture.Recorder
	Extractor   extractor.Extractor
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Metrics     *observe.Metrics
	Logger      logger.Logger
}

type implPipeline struct {
	recorder    capture.Recorder
	extractor   extractor.Extractor
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	metrics     *observe.Metrics
	logger      logger.Logger

	// One token per stage: input covers capture, upload, transcription and
	// extraction; summary covers summarization.
	inputToken   *semaphore.Semaphore
	summaryToken *semaphore.Semaphore

	resetDelay time.Duration
	now        func() time.Time

	mu          sync.Mutex
	snap        models.Snapshot
	progressGen uint64
	capture     *run
	subscribers map[int]chan models.Snapshot
	nextSubID   int
}

// New creates a Pipeline in the idle state.
func New(deps Deps) Pipeline {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	p := &implPipeline{
		recorder:     deps.Recorder,
		extractor:    deps.Extractor,
		transcriber:  deps.Transcriber,
		summarizer:   deps.Summarizer,
		metrics:      metrics,
		logger:       deps.Logger,
		inputToken:   semaphore.New(1),
		summaryToken: semaphore.New(1),
		resetDelay:   progressResetDelay,
		now:          time.Now,
		subscribers:  make(map[int]chan models.Snapshot),
	}
	p.snap = models.Snapshot{State: models.StateIdle, UpdatedAt: p.now()}
	return p
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meeting-brief/internal/capture"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/internal/observe"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
	"github.com/nguyentantai21042004/meeting-brief/internal/summarizer"
)

const (
	runCapture    = "capture"
	runUpload     = "upload"
	runRegenerate = "regenerate"

	sourceMicrophone = "microphone"
)

type run struct {
	id          string
	kind        string
	source      string
	started     time.Time
	fingerprint string
	duration    time.Duration
}

// transcriptReady hands a finished transcript straight to summarization.
type transcriptReady struct {
	run        *run
	transcript string
}

func (r *run) result(transcript string, summary *models.SummaryResult, backend string) Result {
	return Result{
		RunID:       r.id,
		Source:      r.source,
		Transcript:  transcript,
		Summary:     summary,
		Fingerprint: r.fingerprint,
		Backend:     backend,
		Duration:    r.duration,
	}
}

// beginRun claims the input stage and leaves the ready states.
func (p *implPipeline) beginRun(ctx context.Context, kind, src string, first models.PipelineState) (*run, error) {
	if !p.inputToken.TryAcquire() {
		return nil, ErrBusy
	}

	p.mu.Lock()
	if !p.snap.State.Ready() {
		p.mu.Unlock()
		p.inputToken.Release()
		return nil, ErrBusy
	}
	r := &run{id: uuid.NewString(), kind: kind, source: src, started: p.now()}
	p.snap.RunID = r.id
	p.snap.Source = src
	p.restartProgressLocked(0)
	err := p.setStateLocked(first)
	p.mu.Unlock()

	if err != nil {
		p.inputToken.Release()
		return nil, err
	}

	p.metrics.ActiveRuns.Add(ctx, 1)
	p.logger.Info(ctx, "Run %s started (%s: %s)", r.id, kind, src)
	return r, nil
}

func (p *implPipeline) finishRun(ctx context.Context, r *run, outcome string) {
	p.metrics.ActiveRuns.Add(ctx, -1)
	p.metrics.RecordRun(ctx, r.kind, outcome)
	p.logger.Info(ctx, "Run %s %s in %s", r.id, outcome, time.Since(r.started).Truncate(time.Millisecond))
}

// fail surfaces err as a notice and returns the pipeline to idle. The
// current summary is never touched.
func (p *implPipeline) fail(ctx context.Context, r *run, stage string, err error) {
	p.logger.Error(ctx, "Run %s: %s: %v", r.id, stage, err)

	p.mu.Lock()
	if terr := p.setStateLocked(models.StateFailed); terr != nil {
		p.logger.Warn(ctx, "Run %s: %v", r.id, terr)
		p.snap.State = models.StateFailed
	}
	p.noticeLocked(models.NoticeError, fmt.Sprintf("%s: %v", stage, err))
	p.broadcastLocked()
	_ = p.setStateLocked(models.StateIdle)
	p.mu.Unlock()

	p.finishRun(ctx, r, "failed")
}

func (p *implPipeline) StartCapture(ctx context.Context) error {
	r, err := p.beginRun(ctx, runCapture, sourceMicrophone, models.StateRecording)
	if err != nil {
		return err
	}

	if err := p.recorder.Start(ctx); err != nil {
		p.inputToken.Release()
		p.fail(ctx, r, "Microphone error", err)
		return err
	}

	p.mu.Lock()
	p.capture = r
	p.mu.Unlock()

	p.notify(models.NoticeInfo, "Recording started")
	return nil
}

func (p *implPipeline) StopCapture(ctx context.Context) (Result, error) {
	p.mu.Lock()
	r := p.capture
	p.capture = nil
	p.mu.Unlock()

	if r == nil {
		return Result{}, capture.ErrNotRecording
	}

	payload, err := p.recorder.Stop(ctx)
	if err != nil {
		p.inputToken.Release()
		p.fail(ctx, r, "Microphone error", err)
		return r.result("", nil, ""), err
	}

	r.fingerprint = payload.Fingerprint()
	r.duration = payload.Duration()
	p.logger.Info(ctx, "Run %s: recorded %s", r.id, payload.Duration().Truncate(time.Millisecond))
	return p.transcribe(ctx, r, payload)
}

func (p *implPipeline) SubmitFile(ctx context.Context, file models.SourceFile) (Result, error) {
	if err := source.Validate(file); err != nil {
		p.logger.Warn(ctx, "Rejected %s: %v", file.Name, err)
		p.notify(models.NoticeError, err.Error())
		return Result{Source: file.Name}, err
	}

	r, err := p.beginRun(ctx, runUpload, file.Name, models.StateUploading)
	if err != nil {
		return Result{Source: file.Name}, err
	}

	if source.KindOf(file).IsDocument() {
		return p.extract(ctx, r, file)
	}

	payload := models.NewAudioPayload(file.Data, audioMIME(file), 0)
	r.fingerprint = payload.Fingerprint()
	return p.transcribe(ctx, r, payload)
}

func (p *implPipeline) transcribe(ctx context.Context, r *run, payload models.AudioPayload) (Result, error) {
	backend := p.transcriber.Backend()

	p.mu.Lock()
	err := p.setStateLocked(models.StateTranscribing)
	p.restartProgressLocked(ProgressStarted)
	p.broadcastLocked()
	p.mu.Unlock()
	if err != nil {
		p.inputToken.Release()
		p.fail(ctx, r, "Transcription error", err)
		return r.result("", nil, backend), err
	}

	start := time.Now()
	spanCtx, span := observe.StartSpan(ctx, "transcribe")
	text, err := p.transcriber.Transcribe(spanCtx, payload, p.setProgress)
	observe.EndSpan(span, err)
	observe.Since(ctx, p.metrics.TranscriptionDuration, start)
	p.metrics.RecordProviderCall(ctx, backend, "transcription", err)

	p.inputToken.Release()

	if err != nil {
		p.fail(ctx, r, "Transcription error", err)
		p.scheduleProgressReset()
		return r.result("", nil, backend), err
	}

	summary, err := p.completeTranscript(ctx, r, text, "Transcription complete")
	return r.result(text, summary, backend), err
}

func (p *implPipeline) extract(ctx context.Context, r *run, file models.SourceFile) (Result, error) {
	p.mu.Lock()
	err := p.setStateLocked(models.StateExtracting)
	p.restartProgressLocked(ProgressStarted)
	p.broadcastLocked()
	p.mu.Unlock()
	if err != nil {
		p.inputToken.Release()
		p.fail(ctx, r, "Document error", err)
		return r.result("", nil, ""), err
	}

	start := time.Now()
	spanCtx, span := observe.StartSpan(ctx, "extract")
	text, err := p.extractor.Extract(spanCtx, file)
	observe.EndSpan(span, err)
	observe.Since(ctx, p.metrics.ExtractionDuration, start)

	p.inputToken.Release()

	if err != nil {
		p.fail(ctx, r, "Could not read the document", err)
		p.scheduleProgressReset()
		return r.result("", nil, ""), err
	}

	summary, err := p.completeTranscript(ctx, r, text, "Document text extracted")
	return r.result(text, summary, ""), err
}

// completeTranscript stores the new transcript and fires exactly one
// summarization for it, even when the text equals the previous transcript.
func (p *implPipeline) completeTranscript(ctx context.Context, r *run, text, msg string) (*models.SummaryResult, error) {
	p.mu.Lock()
	p.snap.Transcript = text
	p.snap.Progress = ProgressFinished
	p.noticeLocked(models.NoticeSuccess, msg)
	err := p.setStateLocked(models.StateSummaryTriggered)
	p.mu.Unlock()
	p.scheduleProgressReset()

	if err != nil {
		p.fail(ctx, r, "Summary error", err)
		return nil, err
	}

	return p.onTranscriptReady(ctx, transcriptReady{run: r, transcript: text})
}

func (p *implPipeline) onTranscriptReady(ctx context.Context, ev transcriptReady) (*models.SummaryResult, error) {
	// A Regenerate racing this call holds the token only until it sees
	// the pipeline is not ready.
	if err := p.summaryToken.Acquire(ctx); err != nil {
		p.fail(ctx, ev.run, "Summary error", err)
		return nil, err
	}
	defer p.summaryToken.Release()

	if err := p.setState(models.StateSummarizing); err != nil {
		p.fail(ctx, ev.run, "Summary error", err)
		return nil, err
	}
	return p.summarize(ctx, ev.run, ev.transcript)
}

func (p *implPipeline) Regenerate(ctx context.Context) (models.SummaryResult, error) {
	p.mu.Lock()
	text := p.snap.Transcript
	src := p.snap.Source
	p.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		p.notify(models.NoticeError, "No transcript to analyze")
		return models.SummaryResult{}, summarizer.ErrEmptyInput
	}

	if !p.summaryToken.TryAcquire() {
		return models.SummaryResult{}, ErrBusy
	}
	defer p.summaryToken.Release()

	p.mu.Lock()
	if !p.snap.State.Ready() {
		p.mu.Unlock()
		return models.SummaryResult{}, ErrBusy
	}
	r := &run{id: uuid.NewString(), kind: runRegenerate, source: src, started: p.now()}
	p.snap.RunID = r.id
	err := p.setStateLocked(models.StateSummarizing)
	p.mu.Unlock()
	if err != nil {
		return models.SummaryResult{}, err
	}
	p.metrics.ActiveRuns.Add(ctx, 1)

	summary, err := p.summarize(ctx, r, text)
	if err != nil {
		return models.SummaryResult{}, err
	}
	return *summary, nil
}

// summarize runs the summarization stage. The summary token must be held
// and the state must be Summarizing.
func (p *implPipeline) summarize(ctx context.Context, r *run, text string) (*models.SummaryResult, error) {
	start := time.Now()
	spanCtx, span := observe.StartSpan(ctx, "summarize")
	summary, err := p.summarizer.Summarize(spanCtx, text)
	observe.EndSpan(span, err)
	observe.Since(ctx, p.metrics.SummarizationDuration, start)
	if !errors.Is(err, summarizer.ErrEmptyInput) {
		p.metrics.RecordProviderCall(ctx, "gemini", "summarization", err)
	}

	if err != nil {
		p.fail(ctx, r, "Summary error", err)
		return nil, err
	}

	p.mu.Lock()
	stored := summary.Clone()
	p.snap.Summary = &stored
	p.noticeLocked(models.NoticeSuccess, "Summary generated")
	serr := p.setStateLocked(models.StateDone)
	p.mu.Unlock()
	if serr != nil {
		p.logger.Warn(ctx, "Run %s: %v", r.id, serr)
	}

	p.finishRun(ctx, r, "done")
	out := summary.Clone()
	return &out, nil
}

func (p *implPipeline) SetTranscript(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.State.ProducingTranscript() {
		return ErrBusy
	}
	p.snap.Transcript = text
	p.broadcastLocked()
	return nil
}

func (p *implPipeline) ClearTranscript() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.State.ProducingTranscript() {
		return ErrBusy
	}
	p.snap.Transcript = ""
	p.restartProgressLocked(0)
	p.noticeLocked(models.NoticeSuccess, "Transcript cleared")
	p.broadcastLocked()
	return nil
}

// audioMIME picks the payload type: the declared audio type, else the one
// implied by the extension.
func audioMIME(f models.SourceFile) string {
	if strings.HasPrefix(f.DeclaredType, "audio/") {
		return f.DeclaredType
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); t != "" {
		return t
	}
	if strings.HasPrefix(f.SniffedType, "audio/") {
		return f.SniffedType
	}
	return "application/octet-stream"
}

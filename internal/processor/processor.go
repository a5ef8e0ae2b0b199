package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/export"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
)

// Process moves path into the processing folder, runs it through the
// pipeline, writes the transcript and summary exports, and archives the
// original. A failed file stays in the processing folder.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting processing: %s", path)
	p.logger.Info(ctx, "========================================")

	// Step 1: Claim the file
	workPath, err := p.moveToProcessing(ctx, path)
	if err != nil {
		return err
	}

	// Step 2: Read and validate
	file, err := source.FromPath(workPath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	// Step 3: Transcribe or extract, then summarize
	res, err := p.submit(ctx, file)
	if err != nil && res.Transcript == "" {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Step 4: Write outputs. A transcript is kept even when the summary failed.
	stem := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
	written, werr := p.writeOutputs(ctx, stem, res)
	if werr != nil {
		return fmt.Errorf("write outputs: %w", werr)
	}
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	// Step 5: Archive the original
	if err := p.moveToArchived(ctx, workPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	for _, out := range written {
		p.logger.Info(ctx, "Output: %s", out)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return nil
}

// submit waits out ErrBusy so inbox files queue behind interactive runs.
func (p *implProcessor) submit(ctx context.Context, file models.SourceFile) (pipeline.Result, error) {
	for {
		res, err := p.pipeline.SubmitFile(ctx, file)
		if !errors.Is(err, pipeline.ErrBusy) {
			return res, err
		}
		p.logger.Debug(ctx, "Pipeline busy, %s waits", file.Name)
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(p.retry):
		}
	}
}

func (p *implProcessor) meta(res pipeline.Result) export.Meta {
	return export.Meta{
		Title:       res.Source,
		Source:      res.Source,
		Fingerprint: res.Fingerprint,
		Backend:     res.Backend,
		Model:       p.model,
		Generated:   p.now(),
		Duration:    res.Duration,
	}
}

package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
)

// moveToProcessing moves a file from the inbox to the processing folder.
func (p *implProcessor) moveToProcessing(ctx context.Context, path string) (string, error) {
	destPath := filepath.Join(p.paths.Processing, filepath.Base(path))

	p.logger.Info(ctx, "Moving to processing folder: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return "", fmt.Errorf("move to processing: %w", err)
	}
	return destPath, nil
}

// moveToArchived moves a finished original out of the processing folder.
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	destPath := filepath.Join(p.paths.Archived, filepath.Base(path))

	p.logger.Info(ctx, "Archiving: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// writeOutputs writes the transcript and, when present, the summary in
// text, markdown and docx form. It returns the paths written.
func (p *implProcessor) writeOutputs(ctx context.Context, stem string, res pipeline.Result) ([]string, error) {
	var written []string
	write := func(name, content string) error {
		path := filepath.Join(p.paths.Output, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		p.logger.Debug(ctx, "Wrote %s", path)
		written = append(written, path)
		return nil
	}

	if err := write(stem+".transcript.txt", res.Transcript); err != nil {
		return written, err
	}
	if res.Summary == nil {
		return written, nil
	}

	s := *res.Summary
	meta := p.meta(res)
	if err := write(stem+".summary.txt", p.exporter.Download(s, meta.Generated)); err != nil {
		return written, err
	}
	if err := write(stem+".md", p.exporter.Markdown(s, meta)); err != nil {
		return written, err
	}

	docxPath := filepath.Join(p.paths.Output, stem+".docx")
	if err := p.exporter.WriteDocx(s, meta, docxPath); err != nil {
		return written, fmt.Errorf("write %s: %w", filepath.Base(docxPath), err)
	}
	written = append(written, docxPath)
	return written, nil
}

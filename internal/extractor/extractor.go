package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
)

var (
	ErrExtraction  = errors.New("could not extract text from document")
	ErrNotDocument = errors.New("file is not a document")
)

// Extract dispatches on the file kind. The returned text is trimmed.
func (e *implExtractor) Extract(ctx context.Context, file models.SourceFile) (string, error) {
	kind := source.KindOf(file)

	var (
		text string
		err  error
	)
	switch kind {
	case models.KindPDF:
		text, err = extractPDF(file.Data)
	case models.KindWord:
		text, err = extractWord(file.Data)
	case models.KindText:
		text, err = extractText(file.Data)
	default:
		return "", fmt.Errorf("%s: %w", file.Name, ErrNotDocument)
	}
	if err != nil {
		e.logger.Warn(ctx, "Extraction failed for %s: %v", file.Name, err)
		return "", fmt.Errorf("%s: %w", file.Name, err)
	}

	e.logger.Debug(ctx, "Extracted %d characters from %s (%s)", len(text), file.Name, kind)
	return text, nil
}

package extractor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// Extractor converts document files straight to transcript text.
type Extractor interface {
	Extract(ctx context.Context, file models.SourceFile) (string, error)
}

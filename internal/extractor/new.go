package extractor

import (
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
)

type implExtractor struct {
	logger logger.Logger
}

// New creates a document Extractor.
func New(log logger.Logger) Extractor {
	return &implExtractor{logger: log}
}

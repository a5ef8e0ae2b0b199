package processor

import "context"

// Processor runs one inbox file through the pipeline and writes its outputs.
type Processor interface {
	Process(ctx context.Context, path string) error
}

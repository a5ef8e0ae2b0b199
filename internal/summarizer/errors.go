package summarizer

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput        = errors.New("no transcript to summarize")
	ErrService           = errors.New("summarization service error")
	ErrMalformedResponse = errors.New("could not extract the structured summary")
)

// ServiceError is a non-success answer from the generative-text service.
// It matches ErrService with errors.Is.
type ServiceError struct {
	Status int
	Detail string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%v: %s", ErrService, e.Detail)
	}
	return fmt.Sprintf("%v: status %d: %s", ErrService, e.Status, e.Detail)
}

func (e *ServiceError) Is(target error) bool { return target == ErrService }

func (e *ServiceError) Unwrap() error { return e.Err }

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nguyentantai21042004/meeting-brief/internal/capture"
	"github.com/nguyentantai21042004/meeting-brief/internal/extractor"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
	"github.com/nguyentantai21042004/meeting-brief/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-brief/internal/transcriber"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, source.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, source.ErrValidation), errors.Is(err, summarizer.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrBusy),
		errors.Is(err, capture.ErrNotRecording),
		errors.Is(err, capture.ErrAlreadyRecording):
		return http.StatusConflict
	case errors.Is(err, extractor.ErrExtraction), errors.Is(err, extractor.ErrNotDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, capture.ErrDeviceAccess), errors.Is(err, capture.ErrNoAudio):
		return http.StatusServiceUnavailable
	case errors.Is(err, transcriber.ErrTranscription),
		errors.Is(err, summarizer.ErrService),
		errors.Is(err, summarizer.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
	}
}

func (a *implAPI) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error(r.Context(), "%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		a.logger.Debug(r.Context(), "%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

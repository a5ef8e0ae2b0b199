package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
)

// uploadOverhead leaves room for multipart headers on top of the file cap.
const uploadOverhead = 1 << 20

type resultBody struct {
	RunID       string                `json:"run_id"`
	Source      string                `json:"source"`
	Transcript  string                `json:"transcript"`
	Summary     *models.SummaryResult `json:"summary,omitempty"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Backend     string                `json:"backend,omitempty"`
	DurationMS  int64                 `json:"duration_ms,omitempty"`
	Error       string                `json:"error,omitempty"`
}

type transcriptBody struct {
	Transcript string `json:"transcript"`
}

func toResultBody(res pipeline.Result, err error) resultBody {
	body := resultBody{
		RunID:       res.RunID,
		Source:      res.Source,
		Transcript:  res.Transcript,
		Summary:     res.Summary,
		Fingerprint: res.Fingerprint,
		Backend:     res.Backend,
		DurationMS:  res.Duration.Milliseconds(),
	}
	if err != nil {
		body.Error = err.Error()
	}
	return body
}

// writeResult reports a run. A run that produced a transcript but no summary
// still returns the transcript alongside the error.
func (a *implAPI) writeResult(w http.ResponseWriter, r *http.Request, res pipeline.Result, err error) {
	if err != nil && res.Transcript == "" {
		a.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	writeJSON(w, status, toResultBody(res, err))
}

func (a *implAPI) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.pipeline.Snapshot())
}

func (a *implAPI) handleCaptureStart(w http.ResponseWriter, r *http.Request) {
	if err := a.pipeline.StartCapture(r.Context()); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, a.pipeline.Snapshot())
}

func (a *implAPI) handleCaptureStop(w http.ResponseWriter, r *http.Request) {
	res, err := a.pipeline.StopCapture(r.Context())
	a.writeResult(w, r, res, err)
}

func (a *implAPI) handleFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, source.MaxFileSize+uploadOverhead)

	f, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.writeError(w, r, source.ErrTooLarge)
			return
		}
		a.writeError(w, r, fmt.Errorf("%w: multipart field \"file\" is required", source.ErrValidation))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		a.writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	file := source.FromBytes(header.Filename, header.Header.Get("Content-Type"), data)
	res, err := a.pipeline.SubmitFile(r.Context(), file)
	a.writeResult(w, r, res, err)
}

func (a *implAPI) handleTranscriptPut(w http.ResponseWriter, r *http.Request) {
	var body transcriptBody
	if err := json.NewDecoder(io.LimitReader(r.Body, source.MaxFileSize)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if err := a.pipeline.SetTranscript(body.Transcript); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.pipeline.Snapshot())
}

func (a *implAPI) handleTranscriptDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.pipeline.ClearTranscript(); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.pipeline.Snapshot())
}

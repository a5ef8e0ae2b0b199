package transcriber

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/pkg/fingerprint"
)

// maxErrorBody caps how much of an error response is kept as detail.
const maxErrorBody = 4 << 10

type elevenLabs struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   logger.Logger
}

type elevenLabsRequest struct {
	Audio   string `json:"audio"`
	ModelID string `json:"model_id"`
}

type elevenLabsResponse struct {
	Text string `json:"text"`
}

func newElevenLabs(cfg config.TranscriptionConfig, client *http.Client, log logger.Logger) *elevenLabs {
	return &elevenLabs{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   client,
		logger:   log,
	}
}

func (e *elevenLabs) Backend() string { return config.BackendElevenLabs }

func (e *elevenLabs) Transcribe(ctx context.Context, payload models.AudioPayload, progress ProgressFunc) (string, error) {
	body, err := json.Marshal(elevenLabsRequest{
		Audio:   base64.StdEncoding.EncodeToString(payload.Data()),
		ModelID: e.model,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrTranscription, err)
	}
	report(progress, ProgressEncoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTranscription, err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	e.logger.Debug(ctx, "Sending %d bytes (%s, %s) to %s", payload.Size(), payload.MIMEType(),
		fingerprint.Short(payload.Fingerprint()), e.endpoint)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	defer resp.Body.Close()
	report(progress, ProgressResponse)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: %s: %s", ErrTranscription, resp.Status, strings.TrimSpace(string(detail)))
	}

	var out elevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTranscription, err)
	}
	return out.Text, nil
}

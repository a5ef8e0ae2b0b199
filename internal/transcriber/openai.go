package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

type openAI struct {
	client *openai.Client
	model  string
	logger logger.Logger
}

// uploadNames gives the multipart upload a filename the API accepts.
var uploadNames = map[string]string{
	"audio/wav":   "audio.wav",
	"audio/x-wav": "audio.wav",
	"audio/mpeg":  "audio.mp3",
	"audio/mp3":   "audio.mp3",
	"audio/x-m4a": "audio.m4a",
	"audio/mp4":   "audio.m4a",
	"audio/ogg":   "audio.ogg",
}

func newOpenAI(cfg config.TranscriptionConfig, httpClient *http.Client, log logger.Logger) *openAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	clientCfg.HTTPClient = httpClient

	return &openAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: log,
	}
}

func (o *openAI) Backend() string { return config.BackendOpenAI }

func (o *openAI) Transcribe(ctx context.Context, payload models.AudioPayload, progress ProgressFunc) (string, error) {
	name, ok := uploadNames[payload.MIMEType()]
	if !ok {
		name = "audio.wav"
	}
	report(progress, ProgressEncoded)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: name,
		Reader:   bytes.NewReader(payload.Data()),
	})
	report(progress, ProgressResponse)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	o.logger.Debug(ctx, "Transcribed %d bytes with %s", payload.Size(), o.model)
	return resp.Text, nil
}

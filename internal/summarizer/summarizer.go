package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// Summarize sends the transcript to Gemini once per usable key and parses
// the structured summary out of the reply.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (models.SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return models.SummaryResult{}, ErrEmptyInput
	}

	text, err := s.callGemini(ctx, buildPrompt(s.brand, transcript))
	if err != nil {
		return models.SummaryResult{}, err
	}

	summary, err := parseSummary(text)
	if err != nil {
		s.logger.Warn(ctx, "Unparseable summary response (%d chars): %v", len(text), err)
		return models.SummaryResult{}, err
	}
	return summary, nil
}

// callGemini returns the concatenated text parts of the first candidate.
// Rotates API keys on 429 / quota errors; each key is tried at most once.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(s.cfg.APIKeys)
	if attempts == 0 {
		return "", &ServiceError{Detail: "no API key configured"}
	}

	var lastErr error
	for range attempts {
		keyIndex, key := s.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      key,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  s.httpClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: s.cfg.BaseURL},
		})
		if err != nil {
			lastErr = &ServiceError{Detail: "create client", Err: err}
			s.rotateKey(keyIndex)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.cfg.Model, genai.Text(prompt), s.generateConfig())
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("generate content: %w", ctx.Err())
			}
			svcErr := toServiceError(err)
			if isQuota(svcErr) && attempts > 1 {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				s.rotateKey(keyIndex)
				lastErr = svcErr
				continue
			}
			return "", svcErr
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("%w: empty response from Gemini", ErrMalformedResponse)
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.cfg.Temperature),
		TopK:            genai.Ptr(s.cfg.TopK),
		TopP:            genai.Ptr(s.cfg.TopP),
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	}
	if s.cfg.StructuredOutput != nil && *s.cfg.StructuredOutput {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = summarySchema
	}
	return cfg
}

func (s *implSummarizer) key() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.cfg.APIKeys[s.currentKey]
}

// rotateKey moves past the key at index unless another call already did.
func (s *implSummarizer) rotateKey(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == index {
		s.currentKey = (s.currentKey + 1) % len(s.cfg.APIKeys)
	}
}

func toServiceError(err error) *ServiceError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Status: apiErr.Code, Detail: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &ServiceError{Status: apiErrPtr.Code, Detail: apiErrPtr.Message, Err: err}
	}
	return &ServiceError{Detail: err.Error(), Err: err}
}

func isQuota(err *ServiceError) bool {
	if err.Status == 429 {
		return true
	}
	msg := err.Error()
	if err.Err != nil {
		msg += " " + err.Err.Error()
	}
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
)

const validSummary = `{"context":"Quarterly review","keyPoints":["b","a","c"],"commitments":["send deck | Ana | Friday"],"nextSteps":["schedule demo"],"concerns":["pricing"]}`

func candidate(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			}},
		},
	})
	return string(body)
}

type geminiStub struct {
	mu       sync.Mutex
	requests int
	keys     []string
	bodies   []map[string]any
	handler  func(w http.ResponseWriter, key string)
}

func (g *geminiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("x-goog-api-key")
	if key == "" {
		key = r.URL.Query().Get("key")
	}

	var body map[string]any
	raw, _ := io.ReadAll(r.Body)
	json.Unmarshal(raw, &body)

	g.mu.Lock()
	g.requests++
	g.keys = append(g.keys, key)
	g.bodies = append(g.bodies, body)
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	g.handler(w, key)
}

func newTestSummarizer(t *testing.T, stub *geminiStub, keys ...string) Summarizer {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := config.GeminiConfig{
		Model:           "gemini-2.5-flash",
		APIKeys:         keys,
		BaseURL:         srv.URL + "/",
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 1024,
	}
	return New(cfg, "INDIGO", logger.Nop())
}

func TestSummarizeEmptyInput(t *testing.T) {
	stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
		io.WriteString(w, candidate(validSummary))
	}}
	s := newTestSummarizer(t, stub, "k1")

	for _, transcript := range []string{"", "   \n\t"} {
		if _, err := s.Summarize(context.Background(), transcript); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Summarize(%q) error = %v, want ErrEmptyInput", transcript, err)
		}
	}
	if stub.requests != 0 {
		t.Errorf("requests = %d, want 0", stub.requests)
	}
}

func TestSummarizeParsesEmbeddedJSON(t *testing.T) {
	stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
		io.WriteString(w, candidate("Here is the analysis:\n```json\n"+validSummary+"\n```"))
	}}
	s := newTestSummarizer(t, stub, "k1")

	got, err := s.Summarize(context.Background(), "we agreed to send the deck")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Context != "Quarterly review" {
		t.Errorf("Context = %q", got.Context)
	}
	if strings.Join(got.KeyPoints, ",") != "b,a,c" {
		t.Errorf("KeyPoints order = %v", got.KeyPoints)
	}
	if len(got.Concerns) != 1 || got.Concerns[0] != "pricing" {
		t.Errorf("Concerns = %v", got.Concerns)
	}

	if stub.requests != 1 {
		t.Fatalf("requests = %d, want 1", stub.requests)
	}
	body := stub.bodies[0]
	gen, _ := body["generationConfig"].(map[string]any)
	if gen["temperature"] != 0.7 || gen["topK"] != 40.0 || gen["topP"] != 0.95 || gen["maxOutputTokens"] != 1024.0 {
		t.Errorf("generationConfig = %v", gen)
	}
	if !strings.Contains(string(mustJSON(body["contents"])), "we agreed to send the deck") {
		t.Error("prompt does not embed the transcript")
	}
}

func TestSummarizeStructuredOutput(t *testing.T) {
	stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
		io.WriteString(w, candidate(validSummary))
	}}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	on := true
	s := New(config.GeminiConfig{
		Model:            "gemini-2.5-flash",
		APIKeys:          []string{"k1"},
		BaseURL:          srv.URL + "/",
		StructuredOutput: &on,
	}, "INDIGO", logger.Nop())

	if _, err := s.Summarize(context.Background(), "hello"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	gen, _ := stub.bodies[0]["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType = %v", gen["responseMimeType"])
	}
	if gen["responseSchema"] == nil {
		t.Error("responseSchema missing")
	}
}

func TestSummarizeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no json", http.StatusOK, candidate("I cannot summarize this."), ErrMalformedResponse},
		{"broken json", http.StatusOK, candidate(`{"context": "x", "keyPoints": [}`), ErrMalformedResponse},
		{"wrong shape", http.StatusOK, candidate(`{"summary":"x"}`), ErrMalformedResponse},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrMalformedResponse},
		{"service error", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, ErrService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}}
			s := newTestSummarizer(t, stub, "k1")

			_, err := s.Summarize(context.Background(), "transcript")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Summarize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceErrorDetail(t *testing.T) {
	stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}}
	s := newTestSummarizer(t, stub, "k1", "k2")

	_, err := s.Summarize(context.Background(), "transcript")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if svcErr.Status != 400 || svcErr.Detail != "API key not valid" {
		t.Errorf("ServiceError = %+v", svcErr)
	}
	if stub.requests != 1 {
		t.Errorf("requests = %d, non-quota errors must not rotate", stub.requests)
	}
}

func TestSummarizeRotatesKeysOnQuota(t *testing.T) {
	stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
		if key == "k1" {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
			return
		}
		io.WriteString(w, candidate(validSummary))
	}}
	s := newTestSummarizer(t, stub, "k1", "k2")

	if _, err := s.Summarize(context.Background(), "transcript"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got := strings.Join(stub.keys, ","); got != "k1,k2" {
		t.Errorf("keys used = %s, want k1,k2", got)
	}

	// The exhausted key is skipped on the next call.
	if _, err := s.Summarize(context.Background(), "transcript"); err != nil {
		t.Fatalf("second Summarize() error = %v", err)
	}
	if got := stub.keys[len(stub.keys)-1]; got != "k2" {
		t.Errorf("second call used %s, want k2", got)
	}
}

func TestSummarizeAllKeysExhausted(t *testing.T) {
	stub := &geminiStub{handler: func(w http.ResponseWriter, key string) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}}
	s := newTestSummarizer(t, stub, "k1", "k2", "k3")

	_, err := s.Summarize(context.Background(), "transcript")
	if !errors.Is(err, ErrService) {
		t.Fatalf("error = %v, want ErrService", err)
	}
	if stub.requests != 3 {
		t.Errorf("requests = %d, want each key tried once", stub.requests)
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/meeting-brief/internal/observe"
)

func (a *implAPI) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", a.handleState)
	mux.HandleFunc("GET /api/events", a.handleEvents)

	mux.HandleFunc("POST /api/capture/start", a.handleCaptureStart)
	mux.HandleFunc("POST /api/capture/stop", a.handleCaptureStop)
	mux.HandleFunc("POST /api/files", a.handleFiles)

	mux.HandleFunc("PUT /api/transcript", a.handleTranscriptPut)
	mux.HandleFunc("DELETE /api/transcript", a.handleTranscriptDelete)

	mux.HandleFunc("GET /api/summary", a.handleSummaryGet)
	mux.HandleFunc("POST /api/summary", a.handleSummaryRegenerate)
	mux.HandleFunc("GET /api/summary/export.txt", a.handleExportText)
	mux.HandleFunc("GET /api/summary/export.md", a.handleExportMarkdown)
	mux.HandleFunc("GET /api/summary/export.docx", a.handleExportDocx)
	mux.HandleFunc("GET /api/summary/mailto", a.handleMailto)
	mux.HandleFunc("POST /api/summary/clipboard", a.handleClipboard)

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (a *implAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Register(mux)
	return observe.Middleware(a.metrics, a.logger)(mux)
}

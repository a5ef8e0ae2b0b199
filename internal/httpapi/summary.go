package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/meeting-brief/internal/export"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

var errNoSummary = errors.New("no summary yet")

// currentSummary writes a 404 and returns false when nothing has been
// summarized yet.
func (a *implAPI) currentSummary(w http.ResponseWriter) (models.Snapshot, bool) {
	snap := a.pipeline.Snapshot()
	if snap.Summary == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errNoSummary.Error()})
		return snap, false
	}
	return snap, true
}

func (a *implAPI) meta(snap models.Snapshot) export.Meta {
	return export.Meta{
		Source:    snap.Source,
		Model:     a.model,
		Generated: a.now(),
	}
}

func (a *implAPI) handleSummaryGet(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSummary(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary)
}

func (a *implAPI) handleSummaryRegenerate(w http.ResponseWriter, r *http.Request) {
	summary, err := a.pipeline.Regenerate(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *implAPI) handleExportText(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSummary(w)
	if !ok {
		return
	}
	now := a.now()
	attach(w, "text/plain; charset=utf-8", a.exporter.Filename(now))
	fmt.Fprint(w, a.exporter.Download(*snap.Summary, now))
}

func (a *implAPI) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSummary(w)
	if !ok {
		return
	}
	attach(w, "text/markdown; charset=utf-8", docName(a.exporter.Filename(a.now()), ".md"))
	fmt.Fprint(w, a.exporter.Markdown(*snap.Summary, a.meta(snap)))
}

func (a *implAPI) handleExportDocx(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSummary(w)
	if !ok {
		return
	}
	data, err := a.exporter.Docx(*snap.Summary, a.meta(snap))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	attach(w, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", docName(a.exporter.Filename(a.now()), ".docx"))
	w.Write(data)
}

func (a *implAPI) handleMailto(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSummary(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": a.exporter.Mailto(*snap.Summary)})
}

func (a *implAPI) handleClipboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSummary(w)
	if !ok {
		return
	}
	if err := a.exporter.Clipboard(*snap.Summary); err != nil {
		a.writeError(w, r, fmt.Errorf("clipboard: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func attach(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// docName swaps the .txt extension of a download name for ext.
func docName(txtName, ext string) string {
	return strings.TrimSuffix(txtName, ".txt") + ext
}

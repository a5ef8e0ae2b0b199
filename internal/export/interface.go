package export

import (
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// Meta describes where a summary came from. All fields are optional.
type Meta struct {
	Title       string
	Source      string
	Fingerprint string
	Backend     string
	Model       string
	Generated   time.Time
	Duration    time.Duration
}

// Exporter renders a SummaryResult into its presentation formats. Every
// format is derived deterministically from the summary.
type Exporter interface {
	Text(s models.SummaryResult) string
	Download(s models.SummaryResult, now time.Time) string
	Filename(now time.Time) string
	Mailto(s models.SummaryResult) string
	Markdown(s models.SummaryResult, meta Meta) string
	Docx(s models.SummaryResult, meta Meta) ([]byte, error)
	WriteDocx(s models.SummaryResult, meta Meta, path string) error
	Clipboard(s models.SummaryResult) error
}

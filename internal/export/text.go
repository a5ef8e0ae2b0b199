package export

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

const separator = "═══════════════════════════════════════"

type section struct {
	title string
	items []string
}

func sections(s models.SummaryResult) []section {
	return []section{
		{"KEY POINTS", s.KeyPoints},
		{"COMMITMENTS AND ACTIONS", s.Commitments},
		{"NEXT STEPS", s.NextSteps},
		{"CONCERNS OR OBJECTIONS", s.Concerns},
	}
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func (e *implExporter) heading() string {
	return "EXECUTIVE SUMMARY - " + strings.ToUpper(e.brand)
}

// Text is the plain template used for the clipboard and e-mail bodies.
func (e *implExporter) Text(s models.SummaryResult) string {
	var b strings.Builder
	b.WriteString(e.heading())
	b.WriteString("\n\nCONTEXT:\n")
	b.WriteString(s.Context)
	for _, sec := range sections(s) {
		fmt.Fprintf(&b, "\n\n%s:\n%s", sec.title, numbered(sec.items))
	}
	return strings.TrimSpace(b.String())
}

// Download is the template for the downloadable .txt file.
func (e *implExporter) Download(s models.SummaryResult, now time.Time) string {
	var b strings.Builder
	b.WriteString(e.heading())
	fmt.Fprintf(&b, "\nGenerated: %s\n\n%s\n\nCONTEXT:\n%s", now.Format("2006-01-02 15:04:05"), separator, s.Context)
	for _, sec := range sections(s) {
		fmt.Fprintf(&b, "\n\n%s\n\n%s:\n%s", separator, sec.title, numbered(sec.items))
	}
	return strings.TrimSpace(b.String())
}

func (e *implExporter) Filename(now time.Time) string {
	return fmt.Sprintf("summary-%d.txt", now.UnixMilli())
}

// Mailto builds a mailto: link with no recipient and the Text template as
// body.
func (e *implExporter) Mailto(s models.SummaryResult) string {
	subject := "Executive Summary - Commercial Meeting " + e.brand
	return "mailto:?subject=" + encodeURIComponent(subject) + "&body=" + encodeURIComponent(e.Text(s))
}

// encodeURIComponent percent-encodes spaces as %20 rather than '+', which
// mail clients render literally.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (e *implExporter) Clipboard(s models.SummaryResult) error {
	if err := e.writeClipboard(e.Text(s)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/pkg/fingerprint"
)

func (e *implExporter) Markdown(s models.SummaryResult, meta Meta) string {
	var b strings.Builder

	if meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	} else {
		fmt.Fprintf(&b, "# Executive Summary - %s\n\n", e.brand)
	}
	if meta.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", meta.Source)
	}
	if meta.Fingerprint != "" {
		fmt.Fprintf(&b, "- Fingerprint: `%s`\n", fingerprint.Short(meta.Fingerprint))
	}
	if meta.Backend != "" {
		fmt.Fprintf(&b, "- Backend: `%s`\n", meta.Backend)
	}
	if meta.Model != "" {
		fmt.Fprintf(&b, "- Model: `%s`\n", meta.Model)
	}
	if !meta.Generated.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", meta.Generated.Format("2006-01-02 15:04"))
	}
	if meta.Duration > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", meta.Duration.Truncate(time.Second))
	}
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "## Context\n\n%s\n", strings.TrimSpace(s.Context))
	for _, sec := range sections(s) {
		fmt.Fprintf(&b, "\n## %s\n\n", titleCase(sec.title))
		if len(sec.items) == 0 {
			b.WriteString("_None_\n")
			continue
		}
		for _, item := range sec.items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "and" || w == "or" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

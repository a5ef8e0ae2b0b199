package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource is the part of a PDF reader the extractor needs. Pages are
// numbered from 1.
type pageSource interface {
	NumPage() int
	PageRuns(n int) ([]string, error)
}

type pdfDocument struct {
	r *pdf.Reader
}

func (d pdfDocument) NumPage() int { return d.r.NumPage() }

func (d pdfDocument) PageRuns(n int) ([]string, error) {
	page := d.r.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	var runs []string
	for _, row := range rows {
		for _, t := range row.Content {
			runs = append(runs, t.S)
		}
	}
	return runs, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrExtraction, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtraction, err)
	}
	return joinPages(pdfDocument{r: r})
}

// joinPages joins the runs of each page with single spaces and separates
// pages with a blank line.
func joinPages(src pageSource) (string, error) {
	var sb strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		runs, err := src.PageRuns(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		sb.WriteString(strings.Join(runs, " "))
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

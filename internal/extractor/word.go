package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomutex/godocx/packager"
	"github.com/gomutex/godocx/wml/ctypes"
)

// oleMagic opens legacy binary .doc files.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func extractWord(data []byte) (string, error) {
	if bytes.HasPrefix(data, oleMagic) {
		return "", fmt.Errorf("%w: unsupported legacy format, save the document as DOCX", ErrExtraction)
	}

	doc, err := packager.Unpack(&data)
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %v", ErrExtraction, err)
	}
	if doc.Document == nil || doc.Document.Body == nil {
		return "", fmt.Errorf("%w: document body missing", ErrExtraction)
	}

	var out []string
	for _, child := range doc.Document.Body.Children {
		switch {
		case child.Para != nil:
			out = append(out, paragraphText(child.Para.GetCT()))
		case child.Table != nil:
			out = appendTable(out, child.Table.GetCT())
		}
	}

	return strings.TrimSpace(strings.Join(out, "\n\n")), nil
}

// appendTable adds every cell paragraph of t in row order.
func appendTable(out []string, t *ctypes.Table) []string {
	if t == nil {
		return out
	}
	for _, rc := range t.RowContents {
		if rc.Row == nil {
			continue
		}
		for _, cc := range rc.Row.Contents {
			if cc.Cell == nil {
				continue
			}
			for _, block := range cc.Cell.Contents {
				switch {
				case block.Paragraph != nil:
					out = append(out, paragraphText(block.Paragraph))
				case block.Table != nil:
					out = appendTable(out, block.Table)
				}
			}
		}
	}
	return out
}

func paragraphText(p *ctypes.Paragraph) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	writeChildren(&b, p.Children)
	return b.String()
}

func writeChildren(b *strings.Builder, children []ctypes.ParagraphChild) {
	for _, c := range children {
		if c.Run != nil {
			writeRun(b, c.Run)
		}
		if c.Link != nil {
			if c.Link.Run != nil {
				writeRun(b, c.Link.Run)
			}
			writeChildren(b, c.Link.Children)
		}
	}
}

func writeRun(b *strings.Builder, r *ctypes.Run) {
	for _, rc := range r.Children {
		switch {
		case rc.Text != nil:
			b.WriteString(rc.Text.Text)
		case rc.Tab != nil:
			b.WriteByte('\t')
		case rc.Break != nil, rc.CarrRtn != nil:
			b.WriteByte('\n')
		}
	}
}

package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
)

type fakePages [][]string

func (f fakePages) NumPage() int { return len(f) }

func (f fakePages) PageRuns(n int) ([]string, error) {
	return f[n-1], nil
}

func TestJoinPages(t *testing.T) {
	tests := []struct {
		name  string
		pages fakePages
		want  string
	}{
		{"single page", fakePages{{"Hello", "world"}}, "Hello world"},
		{"page order kept", fakePages{{"first"}, {"second", "page"}, {"third"}}, "first\n\nsecond page\n\nthird"},
		{"empty page", fakePages{{"a"}, {}, {"b"}}, "a\n\n\n\nb"},
		{"no pages", fakePages{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := joinPages(tt.pages)
			if err != nil {
				t.Fatalf("joinPages() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("joinPages() = %q, want %q", got, tt.want)
			}
		})
	}
}

func wordDoc(t *testing.T, build func(*docx.RootDoc)) []byte {
	t.Helper()
	doc, err := godocx.NewDocument()
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	build(doc)
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	ex := New(logger.Nop())
	ctx := context.Background()

	word := wordDoc(t, func(doc *docx.RootDoc) {
		doc.AddParagraph("  Agenda")
		p := doc.AddParagraph("Budget")
		p.GetCT().Children = append(p.GetCT().Children, ctypes.ParagraphChild{Run: &ctypes.Run{
			Children: []ctypes.RunChild{{Tab: &ctypes.Empty{}}, {Text: ctypes.TextFromString(" approved")}},
		}})
		p = doc.AddParagraph("Line one")
		p.AddRun().AddBreak(nil)
		p.AddText("line two")
	})
	table := wordDoc(t, func(doc *docx.RootDoc) {
		doc.AddParagraph("Actions")
		row := doc.AddTable().AddRow()
		row.AddCell().AddParagraph("Owner")
		row.AddCell().AddParagraph("Due friday")
	})

	tests := []struct {
		name    string
		file    string
		data    []byte
		want    string
		wantErr error
	}{
		{"docx paragraphs", "notes.docx", word, "Agenda\n\nBudget\t approved\n\nLine one\nline two", nil},
		{"docx table cells", "actions.docx", table, "Actions\n\nOwner\n\nDue friday", nil},
		{"empty docx", "blank.docx", wordDoc(t, func(*docx.RootDoc) {}), "", nil},
		{"text with bom", "notes.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte("  hello\n")...), "hello", nil},
		{"legacy doc", "old.doc", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0}, "", ErrExtraction},
		{"broken docx", "broken.docx", []byte("not a zip"), "", ErrExtraction},
		{"broken pdf", "broken.pdf", []byte("%PDF-1.4 garbage"), "", ErrExtraction},
		{"audio", "call.mp3", []byte("ID3"), "", ErrNotDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.Extract(ctx, source.FromBytes(tt.file, "", tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocxMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	if _, err := extractWord(buf.Bytes()); !errors.Is(err, ErrExtraction) {
		t.Fatalf("extractWord() error = %v, want ErrExtraction", err)
	}
}

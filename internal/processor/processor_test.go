package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/export"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-brief/internal/summarizer"
)

type fakePipeline struct {
	pipeline.Pipeline

	results []pipeline.Result
	errs    []error
	files   []models.SourceFile
}

func (f *fakePipeline) SubmitFile(ctx context.Context, file models.SourceFile) (pipeline.Result, error) {
	f.files = append(f.files, file)
	i := len(f.files) - 1
	return f.results[i], f.errs[i]
}

func setup(t *testing.T) (config.PathsConfig, string) {
	t.Helper()
	root := t.TempDir()
	paths := config.PathsConfig{
		Input:      filepath.Join(root, "input"),
		Processing: filepath.Join(root, "processing"),
		Output:     filepath.Join(root, "output"),
		Archived:   filepath.Join(root, "archived"),
	}
	for _, dir := range []string{paths.Input, paths.Processing, paths.Output, paths.Archived} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(paths.Input, "call.mp3")
	if err := os.WriteFile(path, []byte("ID3 fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return paths, path
}

func newProcessor(paths config.PathsConfig, fp *fakePipeline) *implProcessor {
	p := New(paths, "gemini-test", fp, export.New("acme"), logger.Nop()).(*implProcessor)
	p.retry = time.Millisecond
	p.now = func() time.Time { return time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC) }
	return p
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestProcessWritesOutputs(t *testing.T) {
	paths, input := setup(t)
	summary := &models.SummaryResult{Context: "Budget review", KeyPoints: []string{"Approve Q3"}}
	fp := &fakePipeline{
		results: []pipeline.Result{{Source: "call.mp3", Transcript: "we approve Q3", Summary: summary, Backend: "fake"}},
		errs:    []error{nil},
	}

	if err := newProcessor(paths, fp).Process(context.Background(), input); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(fp.files) != 1 || fp.files[0].Name != "call.mp3" || string(fp.files[0].Data) != "ID3 fake audio" {
		t.Errorf("submitted %+v", fp.files)
	}

	transcript, err := os.ReadFile(filepath.Join(paths.Output, "call.transcript.txt"))
	if err != nil || string(transcript) != "we approve Q3" {
		t.Errorf("transcript = %q, %v", transcript, err)
	}
	text, err := os.ReadFile(filepath.Join(paths.Output, "call.summary.txt"))
	if err != nil || !strings.HasPrefix(string(text), "EXECUTIVE SUMMARY - ACME\nGenerated: 2025-03-04 15:30:00") {
		t.Errorf("summary.txt = %q, %v", text, err)
	}
	md, err := os.ReadFile(filepath.Join(paths.Output, "call.md"))
	if err != nil || !strings.Contains(string(md), "- Model: `gemini-test`") {
		t.Errorf("markdown = %q, %v", md, err)
	}
	docx, err := os.ReadFile(filepath.Join(paths.Output, "call.docx"))
	if err != nil || !bytes.HasPrefix(docx, []byte("PK")) {
		t.Errorf("docx missing or not a zip: %v", err)
	}

	if exists(input) || exists(filepath.Join(paths.Processing, "call.mp3")) {
		t.Error("original was not moved out of input/processing")
	}
	if !exists(filepath.Join(paths.Archived, "call.mp3")) {
		t.Error("original was not archived")
	}
}

func TestProcessSummaryFailureKeepsTranscript(t *testing.T) {
	paths, input := setup(t)
	fp := &fakePipeline{
		results: []pipeline.Result{{Source: "call.mp3", Transcript: "raw text"}},
		errs:    []error{summarizer.ErrMalformedResponse},
	}

	err := newProcessor(paths, fp).Process(context.Background(), input)
	if !errors.Is(err, summarizer.ErrMalformedResponse) {
		t.Fatalf("Process() error = %v, want ErrMalformedResponse", err)
	}
	if !exists(filepath.Join(paths.Output, "call.transcript.txt")) {
		t.Error("transcript was not written")
	}
	if exists(filepath.Join(paths.Output, "call.summary.txt")) {
		t.Error("summary written without a summary")
	}
	if !exists(filepath.Join(paths.Processing, "call.mp3")) {
		t.Error("failed file should stay in processing")
	}
}

func TestProcessPipelineFailure(t *testing.T) {
	paths, input := setup(t)
	boom := errors.New("transcription failed")
	fp := &fakePipeline{
		results: []pipeline.Result{{Source: "call.mp3"}},
		errs:    []error{boom},
	}

	if err := newProcessor(paths, fp).Process(context.Background(), input); !errors.Is(err, boom) {
		t.Fatalf("Process() error = %v, want %v", err, boom)
	}
	entries, _ := os.ReadDir(paths.Output)
	if len(entries) != 0 {
		t.Errorf("outputs written on failure: %v", entries)
	}
}

func TestProcessWaitsWhileBusy(t *testing.T) {
	paths, input := setup(t)
	fp := &fakePipeline{
		results: []pipeline.Result{{}, {}, {Source: "call.mp3", Transcript: "t"}},
		errs:    []error{pipeline.ErrBusy, pipeline.ErrBusy, nil},
	}

	if err := newProcessor(paths, fp).Process(context.Background(), input); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(fp.files) != 3 {
		t.Errorf("SubmitFile calls = %d, want 3", len(fp.files))
	}
}

func TestProcessMissingFile(t *testing.T) {
	paths, _ := setup(t)
	fp := &fakePipeline{}

	err := newProcessor(paths, fp).Process(context.Background(), filepath.Join(paths.Input, "gone.mp3"))
	if err == nil {
		t.Fatal("Process() on a missing file should fail")
	}
	if len(fp.files) != 0 {
		t.Error("pipeline called for a missing file")
	}
}

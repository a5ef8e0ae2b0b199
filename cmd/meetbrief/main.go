package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/capture"
	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/export"
	"github.com/nguyentantai21042004/meeting-brief/internal/extractor"
	"github.com/nguyentantai21042004/meeting-brief/internal/httpapi"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/internal/observe"
	"github.com/nguyentantai21042004/meeting-brief/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-brief/internal/processor"
	"github.com/nguyentantai21042004/meeting-brief/internal/source"
	"github.com/nguyentantai21042004/meeting-brief/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-brief/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-brief/internal/watcher"
	"github.com/nguyentantai21042004/meeting-brief/pkg/executor"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	envPath := flag.String("env", ".env", "optional .env file with API keys")
	filePath := flag.String("file", "", "summarize one file, print the result and exit")
	copySummary := flag.Bool("copy", false, "with -file, also copy the summary to the clipboard")
	flag.Parse()

	ctx := context.Background()

	if err := config.LoadDotEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Config file %q not found, copy config.example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		}
		return 1
	}

	log := logger.New(cfg.Logging.Level, logger.WithFormat(cfg.Logging.Format))

	if *cfg.Observability.Metrics {
		tel, err := observe.Setup(ctx, cfg.Observability, version)
		if err != nil {
			log.Error(ctx, "Failed to init telemetry: %v", err)
			return 1
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(sctx); err != nil {
				log.Warn(ctx, "Telemetry shutdown: %v", err)
			}
		}()
	}
	// Bound after Setup so instruments land on the Prometheus reader.
	metrics := observe.DefaultMetrics()

	tr, err := transcriber.New(cfg.Transcription, log)
	if err != nil {
		log.Error(ctx, "Failed to create transcriber: %v", err)
		return 1
	}
	exp := export.New(cfg.Export.Brand)
	exe := executor.New()
	pl := pipeline.New(pipeline.Deps{
		Recorder:    capture.New(cfg.Capture, exe, log),
		Extractor:   extractor.New(log),
		Transcriber: tr,
		Summarizer:  summarizer.New(cfg.Gemini, cfg.Export.Brand, log),
		Metrics:     metrics,
		Logger:      log,
	})

	if *filePath != "" {
		return runOnce(ctx, pl, exp, log, *filePath, *copySummary)
	}
	return serve(ctx, cfg, pl, exp, exe, metrics, log)
}

// runOnce summarizes a single file and prints the clipboard text.
func runOnce(ctx context.Context, pl pipeline.Pipeline, exp export.Exporter, log logger.Logger, path string, copySummary bool) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	file, err := source.FromPath(path)
	if err != nil {
		log.Error(ctx, "%v", err)
		return 1
	}

	res, err := pl.SubmitFile(ctx, file)
	if err != nil {
		log.Error(ctx, "Failed to summarize %s: %v", path, err)
		if res.Transcript != "" {
			fmt.Println(res.Transcript)
		}
		return 1
	}

	fmt.Println(exp.Text(*res.Summary))
	if copySummary {
		if err := exp.Clipboard(*res.Summary); err != nil {
			log.Warn(ctx, "Could not copy to clipboard: %v", err)
		} else {
			log.Info(ctx, "Summary copied to clipboard")
		}
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, pl pipeline.Pipeline, exp export.Exporter, exe executor.Executor, metrics *observe.Metrics, log logger.Logger) int {
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Brief %s", version)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Transcription: %s (%s)", cfg.Transcription.Backend, cfg.Transcription.Model)
	log.Info(ctx, "Summarization: %s, %d key(s)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc := processor.New(cfg.Paths, cfg.Gemini.Model, pl, exp, log)
	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		return 1
	}
	defer w.Stop()

	api := httpapi.New(httpapi.Deps{
		Pipeline: pl,
		Exporter: exp,
		Metrics:  metrics,
		Logger:   log,
		Model:    cfg.Gemini.Model,
		Checkers: []httpapi.Checker{
			{Name: "inbox", Check: func(context.Context) error {
				_, err := os.Stat(cfg.Paths.Input)
				return err
			}},
			{Name: "ffmpeg", Check: func(ctx context.Context) error {
				_, err := exe.Execute(ctx, cfg.Capture.FFmpegPath, "-hide_banner", "-version")
				return err
			}},
		},
		OriginPatterns: cfg.Server.OriginPatterns,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
		exitCode = 1
	}

	log.Info(ctx, "Shutting down gracefully...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx, srv, watcherDone); err != nil {
		log.Warn(shutdownCtx, "Shutdown incomplete: %v", err)
	}

	log.Info(shutdownCtx, "Meeting Brief stopped")
	return exitCode
}

// shutdown stops srv and then waits for the inbox watcher to finish its
// in-flight runs, giving up when ctx expires.
func shutdown(ctx context.Context, srv *http.Server, watcherDone <-chan struct{}) error {
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	select {
	case <-watcherDone:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("inbox watcher: %w", ctx.Err())
	}
}

// ensureDirectories creates the inbox folders if they don't exist.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Processing,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

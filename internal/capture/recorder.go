package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
	"github.com/nguyentantai21042004/meeting-brief/pkg/executor"
)

// startupGrace bounds how long Start waits for the device to either
// produce audio or fail.
var startupGrace = 750 * time.Millisecond

var (
	ErrDeviceAccess     = errors.New("could not access the microphone")
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
	ErrNoAudio          = errors.New("recording captured no audio")
)

type session struct {
	proc    executor.Process
	cancel  context.CancelFunc
	started time.Time

	mu     sync.Mutex
	chunks [][]byte

	firstChunk chan struct{}
	readDone   chan struct{}
}

// Start launches the capture process and waits until it either delivers
// audio or exits. An early exit means the device could not be opened.
func (r *implRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return ErrAlreadyRecording
	}

	// The capture outlives the request that started it.
	procCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	args := ffmpegArgs(r.cfg.InputFormat, r.cfg.Device, DefaultConstraints)
	proc, err := r.executor.Start(procCtx, r.cfg.FFmpegPath, args...)
	if err != nil {
		cancel()
		return fmt.Errorf("%w: %v", ErrDeviceAccess, err)
	}

	s := &session{
		proc:       proc,
		cancel:     cancel,
		started:    time.Now(),
		firstChunk: make(chan struct{}),
		readDone:   make(chan struct{}),
	}
	go s.read()

	select {
	case <-s.firstChunk:
	case <-proc.Done():
		cancel()
		<-s.readDone
		return fmt.Errorf("%w: %s", ErrDeviceAccess, describeExit(proc))
	case <-time.After(startupGrace):
	case <-ctx.Done():
		_ = proc.Stop()
		cancel()
		return ctx.Err()
	}

	r.session = s
	r.logger.Info(ctx, "Recording started (%s %s, %d Hz mono)", r.cfg.InputFormat, r.cfg.Device, DefaultConstraints.SampleRate)
	return nil
}

// Stop releases the device, concatenates all chunks in arrival order and
// wraps them in a WAV container.
func (r *implRecorder) Stop(ctx context.Context) (models.AudioPayload, error) {
	r.mu.Lock()
	s := r.session
	r.session = nil
	r.mu.Unlock()

	if s == nil {
		return models.AudioPayload{}, ErrNotRecording
	}

	if err := s.proc.Stop(); err != nil {
		r.logger.Warn(ctx, "Capture process did not stop cleanly: %v", err)
	}
	s.cancel()
	<-s.readDone

	s.mu.Lock()
	pcm := bytes.Join(s.chunks, nil)
	s.mu.Unlock()

	if len(pcm) == 0 {
		return models.AudioPayload{}, ErrNoAudio
	}

	wavData, err := encodeWAV(pcm, DefaultConstraints)
	if err != nil {
		return models.AudioPayload{}, fmt.Errorf("encode recording: %w", err)
	}

	c := DefaultConstraints
	samples := len(pcm) / (c.BitDepth / 8) / c.Channels
	duration := time.Duration(samples) * time.Second / time.Duration(c.SampleRate)

	r.logger.Info(ctx, "Recording stopped: %s, %d bytes", duration.Truncate(time.Millisecond), len(wavData))
	return models.NewAudioPayload(wavData, ContainerMIME, duration), nil
}

func (r *implRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

func (r *implRecorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return 0
	}
	return time.Since(r.session.started)
}

func (s *session) read() {
	defer close(s.readDone)

	var once sync.Once
	out := s.proc.Stdout()
	buf := make([]byte, chunkBytes)
	for {
		n, err := out.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.mu.Lock()
			s.chunks = append(s.chunks, chunk)
			s.mu.Unlock()
			once.Do(func() { close(s.firstChunk) })
		}
		if err != nil {
			// io.EOF once the process closes stdout.
			return
		}
	}
}

func describeExit(proc executor.Process) string {
	if msg := proc.Stderr(); msg != "" {
		return msg
	}
	return "capture process exited before producing audio"
}

package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/nguyentantai21042004/meeting-brief/internal/config"
	"github.com/nguyentantai21042004/meeting-brief/internal/logger"
	"github.com/nguyentantai21042004/meeting-brief/pkg/executor"
)

type fakeProcess struct {
	stdout io.Reader
	stderr string
	done   chan struct{}
	once   sync.Once
}

func (p *fakeProcess) Stdout() io.Reader     { return p.stdout }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) Stderr() string        { return p.stderr }
func (p *fakeProcess) Stop() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

type fakeExecutor struct {
	proc     *fakeProcess
	startErr error
	name     string
	args     []string
}

func (e *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return "", nil
}

func (e *fakeExecutor) Start(ctx context.Context, name string, args ...string) (executor.Process, error) {
	e.name, e.args = name, args
	if e.startErr != nil {
		return nil, e.startErr
	}
	return e.proc, nil
}

func newRecorder(exec executor.Executor) Recorder {
	cfg := config.CaptureConfig{FFmpegPath: "ffmpeg", InputFormat: "pulse", Device: "default"}
	return New(cfg, exec, logger.Nop())
}

func pcmOf(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = append(out, byte(uint16(s)), byte(uint16(s)>>8))
	}
	return out
}

func TestRecordAndStop(t *testing.T) {
	pcm := make([]byte, chunkBytes*3)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	exec := &fakeExecutor{proc: &fakeProcess{stdout: bytes.NewReader(pcm), done: make(chan struct{})}}
	rec := newRecorder(exec)

	ctx := context.Background()
	if err := rec.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !rec.Recording() {
		t.Fatal("Recording() = false after Start")
	}

	joined := strings.Join(exec.args, " ")
	for _, want := range []string{"-ar 24000", "-ac 1", "-af afftdn,dynaudnorm", "-f pulse", "-i default", "pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}

	payload, err := rec.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if rec.Recording() {
		t.Error("Recording() = true after Stop")
	}
	if payload.MIMEType() != ContainerMIME {
		t.Errorf("MIMEType() = %q, want %q", payload.MIMEType(), ContainerMIME)
	}
	if !bytes.HasPrefix(payload.Data(), []byte("RIFF")) {
		t.Error("payload is not a RIFF container")
	}
	if want := 300 * time.Millisecond; payload.Duration() != want {
		t.Errorf("Duration() = %v, want %v", payload.Duration(), want)
	}
	select {
	case <-exec.proc.done:
	default:
		t.Error("capture process was not released")
	}
}

func TestStartDeviceFailure(t *testing.T) {
	done := make(chan struct{})
	close(done)
	exec := &fakeExecutor{proc: &fakeProcess{
		stdout: bytes.NewReader(nil),
		stderr: "default: Permission denied",
		done:   done,
	}}
	rec := newRecorder(exec)

	err := rec.Start(context.Background())
	if !errors.Is(err, ErrDeviceAccess) {
		t.Fatalf("Start() error = %v, want ErrDeviceAccess", err)
	}
	if !strings.Contains(err.Error(), "Permission denied") {
		t.Errorf("error %q does not carry stderr", err)
	}
	if rec.Recording() {
		t.Error("Recording() = true after failed Start")
	}
}

func TestStartExecutorError(t *testing.T) {
	rec := newRecorder(&fakeExecutor{startErr: errors.New("exec: \"ffmpeg\": not found")})
	if err := rec.Start(context.Background()); !errors.Is(err, ErrDeviceAccess) {
		t.Fatalf("Start() error = %v, want ErrDeviceAccess", err)
	}
}

func TestStateErrors(t *testing.T) {
	old := startupGrace
	startupGrace = 10 * time.Millisecond
	defer func() { startupGrace = old }()

	pr, pw := io.Pipe()
	defer pw.Close()
	proc := &fakeProcess{stdout: pr, done: make(chan struct{})}
	rec := newRecorder(&fakeExecutor{proc: proc})
	ctx := context.Background()

	if _, err := rec.Stop(ctx); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("Stop() before Start error = %v, want ErrNotRecording", err)
	}
	if err := rec.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Start(ctx); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyRecording", err)
	}
	if rec.Elapsed() <= 0 {
		t.Error("Elapsed() should be positive while recording")
	}

	pw.Close()
	if _, err := rec.Stop(ctx); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("Stop() with no audio error = %v, want ErrNoAudio", err)
	}
	if rec.Elapsed() != 0 {
		t.Error("Elapsed() should be zero when idle")
	}
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 1234}
	data, err := encodeWAV(pcmOf(samples...), DefaultConstraints)
	if err != nil {
		t.Fatalf("encodeWAV() error = %v", err)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("decoder rejected encoded file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if buf.Format.SampleRate != 24000 || buf.Format.NumChannels != 1 {
		t.Errorf("format = %+v, want 24000 Hz mono", buf.Format)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
	for i, s := range samples {
		if buf.Data[i] != int(s) {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], s)
		}
	}
}

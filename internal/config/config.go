package config

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Paths         PathsConfig         `yaml:"paths"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Capture       CaptureConfig       `yaml:"capture"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Export        ExportConfig        `yaml:"export"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// OriginPatterns lists extra browser origins allowed on /api/events.
	OriginPatterns []string `yaml:"origin_patterns"`
}

type PathsConfig struct {
	Input      string `yaml:"input"`
	Processing string `yaml:"processing"`
	Output     string `yaml:"output"`
	Archived   string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// CaptureConfig selects the microphone source. The recording format itself
// (24 kHz mono, noise suppression, auto gain) is fixed.
type CaptureConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	InputFormat string `yaml:"input_format"`
	Device      string `yaml:"device"`
}

type TranscriptionConfig struct {
	Backend  string        `yaml:"backend"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	Model            string        `yaml:"model"`
	APIKeys          []string      `yaml:"api_keys"`
	BaseURL          string        `yaml:"base_url"`
	Temperature      float32       `yaml:"temperature"`
	TopK             float32       `yaml:"top_k"`
	TopP             float32       `yaml:"top_p"`
	MaxOutputTokens  int32         `yaml:"max_output_tokens"`
	StructuredOutput *bool         `yaml:"structured_output"`
	Timeout          time.Duration `yaml:"timeout"`
}

type ExportConfig struct {
	Brand string `yaml:"brand"`
}

type ObservabilityConfig struct {
	ServiceName string `yaml:"service_name"`
	Metrics     *bool  `yaml:"metrics"`
}

const (
	BackendElevenLabs = "elevenlabs"
	BackendOpenAI     = "openai"
)

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate rejects incomplete configs and fills defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Input == "" {
		errs = append(errs, fmt.Errorf("paths.input is required"))
	}
	if c.Paths.Output == "" {
		errs = append(errs, fmt.Errorf("paths.output is required"))
	}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("logging.level %q is invalid; valid values: debug, info, warn, error", c.Logging.Level))
	}
	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format %q is invalid; valid values: text, json", c.Logging.Format))
	}

	if c.Transcription.Backend == "" {
		c.Transcription.Backend = BackendElevenLabs
	}
	switch c.Transcription.Backend {
	case BackendElevenLabs, BackendOpenAI:
	default:
		errs = append(errs, fmt.Errorf("transcription.backend %q is invalid; valid values: elevenlabs, openai", c.Transcription.Backend))
	}
	if c.Transcription.APIKey == "" {
		errs = append(errs, fmt.Errorf("transcription.api_key is required"))
	}
	if len(c.Gemini.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("gemini.api_keys is required"))
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Errorf("gemini.temperature %.2f is out of range [0, 2]", c.Gemini.Temperature))
	}
	if c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		errs = append(errs, fmt.Errorf("gemini.top_p %.2f is out of range [0, 1]", c.Gemini.TopP))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Paths.Processing == "" {
		c.Paths.Processing = "data/processing"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Capture.FFmpegPath == "" {
		c.Capture.FFmpegPath = "ffmpeg"
	}
	if c.Capture.InputFormat == "" {
		c.Capture.InputFormat = "pulse"
	}
	if c.Capture.Device == "" {
		c.Capture.Device = "default"
	}
	if c.Transcription.Model == "" {
		switch c.Transcription.Backend {
		case BackendOpenAI:
			c.Transcription.Model = "whisper-1"
		default:
			c.Transcription.Model = "eleven_multilingual_v2"
		}
	}
	if c.Transcription.Endpoint == "" && c.Transcription.Backend == BackendElevenLabs {
		c.Transcription.Endpoint = "https://api.elevenlabs.io/v1/speech-to-text"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Gemini.TopK == 0 {
		c.Gemini.TopK = 40
	}
	if c.Gemini.TopP == 0 {
		c.Gemini.TopP = 0.95
	}
	if c.Gemini.MaxOutputTokens == 0 {
		c.Gemini.MaxOutputTokens = 1024
	}
	if c.Gemini.StructuredOutput == nil {
		c.Gemini.StructuredOutput = boolPtr(true)
	}
	if c.Export.Brand == "" {
		c.Export.Brand = "INDIGO"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "meeting-brief"
	}
	if c.Observability.Metrics == nil {
		c.Observability.Metrics = boolPtr(true)
	}
}

func boolPtr(b bool) *bool { return &b }

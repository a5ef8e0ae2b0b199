package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets from the YAML file.
const (
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGeminiKeys    = "GEMINI_API_KEYS"
	EnvGeminiKey     = "GEMINI_API_KEY"
)

// LoadDotEnv loads .env style files into the process environment.
// Missing files are skipped; existing variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at path, overlays secrets from the environment
// and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r, applies environment overrides and
// validates.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	switch c.Transcription.Backend {
	case BackendOpenAI:
		if v := getenv(EnvOpenAIKey); v != "" {
			c.Transcription.APIKey = v
		}
	default:
		if v := getenv(EnvElevenLabsKey); v != "" {
			c.Transcription.APIKey = v
		}
	}

	if v := getenv(EnvGeminiKeys); v != "" {
		c.Gemini.APIKeys = splitKeys(v)
	} else if v := getenv(EnvGeminiKey); v != "" {
		c.Gemini.APIKeys = []string{strings.TrimSpace(v)}
	}
}

func splitKeys(v string) []string {
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	// Input layout.
	FramesDir string `yaml:"frames_dir"` // per-video frame image dirs
	AudioDir  string `yaml:"audio_dir"`  // per-video wav files
	SplitDir  string `yaml:"split_dir"`  // train.list / val.list

	// Output layout. The global annotation files av_<split>.json are
	// expected next to the split subdirectories under OutputDir.
	OutputDir string `yaml:"output_dir"`

	// Clip geometry. FPS is an assumption, never probed from sources.
	ClipSize int     `yaml:"clip_size"`
	FPS      float64 `yaml:"fps"`

	// Audio export target: mono PCM at SampleRate.
	SampleRate int `yaml:"sample_rate"`

	// Concurrency and I/O limits.
	MaxConcurrent int `yaml:"max_concurrent"`
	CopyRateLimit int `yaml:"copy_rate_limit"` // frame copies/sec, 0 = unlimited
}

// Default returns a Config with hardcoded defaults matching the reference
// dataset layout.
func Default() *Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &Config{
		FramesDir:     "data/video_imgs",
		AudioDir:      "data/wav",
		SplitDir:      "data/split",
		OutputDir:     "dataset",
		ClipSize:      450,
		FPS:           30,
		SampleRate:    16000,
		MaxConcurrent: workers,
		CopyRateLimit: 0,
	}
}

// Load reads a YAML config file over the defaults. Missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.ClipSize <= 0 {
		return fmt.Errorf("clip_size must be positive, got %d", c.ClipSize)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %g", c.FPS)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	return nil
}

package runner

import (
	"time"

	"github.com/kbukum/asreval/resilience"
	"github.com/kbukum/asreval/validation"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultConcurrency  = 4
	defaultLanguageCode = "en-US"
)

// Config configures a Runner.
type Config struct {
	// InputPrefix is the storage folder holding the media, e.g. "input/".
	InputPrefix string `yaml:"input_prefix" mapstructure:"input_prefix" validate:"required,prefix"`
	// OutputPrefix is the storage folder receiving result documents.
	OutputPrefix string `yaml:"output_prefix" mapstructure:"output_prefix" validate:"required,prefix"`
	// Version is the single letter prefixed to every job name, so reruns
	// of the same folder do not collide.
	Version string `yaml:"version" mapstructure:"version" validate:"required,letter"`
	// LanguageCode is the BCP-47 language of the audio.
	LanguageCode string `yaml:"language_code" mapstructure:"language_code" validate:"required"`
	// MediaFormat forces a container format; empty derives it per file.
	MediaFormat string `yaml:"media_format" mapstructure:"media_format"`
	// VocabularyName selects a custom vocabulary for every job.
	VocabularyName string `yaml:"vocabulary_name" mapstructure:"vocabulary_name"`
	// PollInterval is the delay between job status checks.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	// Concurrency bounds the number of jobs in flight.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0"`
	// StartRate caps job starts per second. Zero disables the limit.
	StartRate float64 `yaml:"start_rate" mapstructure:"start_rate" validate:"gte=0"`
	// Retry governs transient provider and storage errors.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.LanguageCode == "" {
		c.LanguageCode = defaultLanguageCode
	}
	c.Retry.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

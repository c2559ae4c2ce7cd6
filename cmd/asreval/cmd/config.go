package cmd

import (
	"github.com/kbukum/asreval/config"
	"github.com/kbukum/asreval/dataset"
	"github.com/kbukum/asreval/observability"
	"github.com/kbukum/asreval/render"
	"github.com/kbukum/asreval/runner"
	"github.com/kbukum/asreval/storage"
	"github.com/kbukum/asreval/textnorm"
	"github.com/kbukum/asreval/transcription/awstranscribe"
	"github.com/kbukum/asreval/transcription/whisper"
	"github.com/kbukum/asreval/util"
	"github.com/kbukum/asreval/validation"
)

// AppConfig is the asreval configuration file.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Cleaning      CleaningConfig       `yaml:"cleaning" mapstructure:"cleaning"`
	Render        RenderConfig         `yaml:"render" mapstructure:"render"`
	Samples       dataset.Columns      `yaml:"samples" mapstructure:"samples"`
	Evaluation    EvaluationConfig     `yaml:"evaluation" mapstructure:"evaluation"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	Runner        runner.Config        `yaml:"runner" mapstructure:"runner"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// CleaningConfig is the text normalisation section.
type CleaningConfig struct {
	// Replacements maps words to their replacement, e.g. "ok" to "okay".
	Replacements map[string]string `yaml:"replacements" mapstructure:"replacements"`
	// WordsToRemove are dropped after replacement, e.g. fillers.
	WordsToRemove []string `yaml:"words_to_remove" mapstructure:"words_to_remove"`
	Cased         bool     `yaml:"cased" mapstructure:"cased"`
	// ShortForms expands English pronoun contractions before the
	// configured replacements apply.
	ShortForms         bool `yaml:"short_forms" mapstructure:"short_forms"`
	UnicodePunctuation bool `yaml:"unicode_punctuation" mapstructure:"unicode_punctuation"`
}

// Build returns the immutable cleaning configuration.
func (c CleaningConfig) Build() textnorm.CleaningConfig {
	var opts []textnorm.Option
	if c.ShortForms {
		opts = append(opts, textnorm.WithReplacements(textnorm.EnglishShortForms()))
	}
	opts = append(opts,
		textnorm.WithReplacements(c.Replacements),
		textnorm.WithWordsToRemove(util.CleanList(c.WordsToRemove)...),
		textnorm.WithCased(c.Cased),
	)
	if c.UnicodePunctuation {
		opts = append(opts, textnorm.WithPunctuation(textnorm.UnicodePunctuation))
	}
	return textnorm.NewCleaningConfig(opts...)
}

// RenderConfig is the comparison layout section.
type RenderConfig struct {
	Width int `yaml:"width" mapstructure:"width"`
	// Margin is nil when the key is absent. Zero is a valid margin.
	Margin  *int `yaml:"margin" mapstructure:"margin"`
	Compact bool `yaml:"compact" mapstructure:"compact"`
}

// Options returns the side-by-side layout of the section.
func (c RenderConfig) Options() render.Options {
	o := render.DefaultOptions()
	if c.Width > 0 {
		o.Width = c.Width
	}
	if c.Margin != nil {
		o.Margin = *c.Margin
	}
	o.Compact = c.Compact
	return o
}

// EvaluationConfig is the batch scoring section.
type EvaluationConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// TranscriptionConfig selects and configures the transcription provider.
type TranscriptionConfig struct {
	// Provider is "aws" or "whisper". It defaults to aws on s3 storage
	// and to whisper otherwise.
	Provider string `yaml:"provider" mapstructure:"provider"`
	// CredentialsFile is an AWS console access key CSV used when no keys
	// are configured.
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	// Providers holds the settings of each provider by name.
	Providers map[string]map[string]any `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig returns the settings of the selected provider.
func (c TranscriptionConfig) ProviderConfig() map[string]any {
	m := make(map[string]any)
	for k, v := range c.Providers[c.Provider] {
		m[k] = v
	}
	return m
}

// ApplyDefaults fills in zero-valued fields.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	def := render.DefaultOptions()
	if c.Render.Width <= 0 {
		c.Render.Width = def.Width
	}
	if c.Render.Margin == nil {
		c.Render.Margin = &def.Margin
	}
	cols := dataset.DefaultColumns()
	c.Samples.ID = util.Coalesce(c.Samples.ID, cols.ID)
	c.Samples.Reference = util.Coalesce(c.Samples.Reference, cols.Reference)
	c.Samples.Hypothesis = util.Coalesce(c.Samples.Hypothesis, cols.Hypothesis)

	c.Storage.ApplyDefaults()
	if c.Transcription.Provider == "" {
		if c.Storage.Provider == storage.ProviderS3 {
			c.Transcription.Provider = awstranscribe.ProviderName
		} else {
			c.Transcription.Provider = whisper.ProviderName
		}
	}
	c.Observability.ApplyDefaults()
}

// Validate checks the sections every command relies on. The runner
// section is validated when a job command builds its runner.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return validation.New().
		NonNegative("evaluation.concurrency", c.Evaluation.Concurrency).
		Positive("render.width", c.Render.Width).
		NonNegative("render.margin", c.Render.Options().Margin).
		Required("transcription.provider", c.Transcription.Provider).
		OneOf("transcription.provider", c.Transcription.Provider, []string{awstranscribe.ProviderName, whisper.ProviderName}).
		Err()
}

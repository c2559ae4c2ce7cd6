// Package whisper implements transcription.Provider on a faster-whisper HTTP
// sidecar. The sidecar is synchronous, so StartJob blocks until the
// transcript is written and returns a job that is already terminal.
package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/httpclient"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/provider"
	"github.com/kbukum/asreval/storage"
	"github.com/kbukum/asreval/transcription"
	"github.com/kbukum/asreval/validation"
	"github.com/kbukum/asreval/version"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second

	headerRequestID = "X-Request-ID"
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL         string        `json:"url" yaml:"url" mapstructure:"url"`
	Model       string        `json:"model" yaml:"model" mapstructure:"model"`
	Device      string        `json:"device,omitempty" yaml:"device" mapstructure:"device"`
	ComputeType string        `json:"compute_type,omitempty" yaml:"compute_type" mapstructure:"compute_type"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultWhisperURL
	}
	if c.Model == "" {
		c.Model = defaultWhisperModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultWhisperTimeout
	}
}

// ConfigFromMap reads a Config from a loosely typed provider config.
// timeout accepts a duration string such as "90s" or a number of seconds.
func ConfigFromMap(m map[string]any) (Config, error) {
	s := provider.Settings(m)
	c := Config{
		URL:         s.String("url"),
		Model:       s.String("model"),
		Device:      s.String("device"),
		ComputeType: s.String("compute_type"),
	}
	var err error
	c.Timeout, err = s.Duration("timeout")
	return c, err
}

// Provider implements transcription.Provider using a faster-whisper HTTP
// sidecar. Media is read from and results are written to store. Job records
// live in memory for the lifetime of the Provider.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	store  storage.Storage
	log    *logger.Logger
	now    func() time.Time

	mu   sync.RWMutex
	jobs map[string]transcription.Job
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config, store storage.Storage, log *logger.Logger) (*Provider, error) {
	if store == nil {
		return nil, errors.MissingField("storage")
	}
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"User-Agent": version.UserAgent()},
	})
	if err != nil {
		return nil, err
	}
	return &Provider{
		cfg:    cfg,
		client: client,
		store:  store,
		log:    log.WithComponent("whisper").WithFields(logger.Fields(logger.FieldProvider, ProviderName)),
		now:    time.Now,
		jobs:   make(map[string]transcription.Job),
	}, nil
}

// Factory returns a provider.Factory that creates Whisper Provider
// instances from a generic config map.
func Factory(store storage.Storage, log *logger.Logger) provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc, err := ConfigFromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewProvider(wc, store, log)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil && resp.StatusCode == http.StatusOK
}

// StartJob transcribes the media at req.MediaPath and writes a result
// document to ResultKey(req.OutputKey, req.Name). A sidecar that answers
// with an error status yields a FAILED job; an unreachable sidecar yields an
// error and no job record.
func (p *Provider) StartJob(ctx context.Context, req transcription.JobRequest) (*transcription.Job, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if req.MediaPath == "" {
		return nil, errors.MissingField("media_path")
	}

	p.mu.Lock()
	if _, ok := p.jobs[req.Name]; ok {
		p.mu.Unlock()
		return nil, errors.AlreadyExists("transcription job", req.Name)
	}
	job := transcription.Job{
		Name:      req.Name,
		Status:    transcription.StatusInProgress,
		CreatedAt: p.now(),
	}
	p.jobs[req.Name] = job
	p.mu.Unlock()

	log := p.log.WithFields(logger.Fields(logger.FieldJob, req.Name, logger.FieldKey, req.MediaPath))

	text, err := p.transcribe(ctx, req)
	if err != nil {
		if httpclient.StatusCode(err) == 0 {
			p.forget(req.Name)
			return nil, err
		}
		job.Status = transcription.StatusFailed
		job.FailureReason = err.Error()
		job.CompletedAt = p.now()
		p.record(job)
		log.Warn("whisper job failed", logger.Fields(logger.FieldError, err.Error()))
		return &job, nil
	}

	key := transcription.ResultKey(req.OutputKey, req.Name)
	data, err := json.Marshal(transcription.NewResultDocument(req.Name, text))
	if err != nil {
		p.forget(req.Name)
		return nil, errors.Internal(err)
	}
	if err := storage.WriteBytes(ctx, p.store, key, data); err != nil {
		p.forget(req.Name)
		return nil, err
	}

	uri, err := p.store.URL(ctx, key)
	if err != nil {
		uri = key
	}
	job.Status = transcription.StatusCompleted
	job.TranscriptURI = uri
	job.CompletedAt = p.now()
	p.record(job)
	log.Debug("whisper job completed", logger.Fields(logger.FieldDuration, job.CompletedAt.Sub(job.CreatedAt).Milliseconds()))
	return &job, nil
}

// transcribe posts the media to the sidecar and returns the trimmed text.
func (p *Provider) transcribe(ctx context.Context, req transcription.JobRequest) (string, error) {
	audio, err := storage.ReadAll(ctx, p.store, req.MediaPath)
	if err != nil {
		return "", err
	}

	fields := map[string]string{"model": p.cfg.Model}
	if lang := whisperLanguage(req.LanguageCode); lang != "" {
		fields["language"] = lang
	}
	if p.cfg.Device != "" {
		fields["device"] = p.cfg.Device
	}
	if p.cfg.ComputeType != "" {
		fields["compute_type"] = p.cfg.ComputeType
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/transcribe",
		Headers: map[string]string{headerRequestID: uuid.NewString()},
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    path.Base(req.MediaPath),
				ContentType: transcription.MediaContentType(req.MediaPath),
				Data:        audio,
			}},
		},
	})
	if err != nil {
		return "", err
	}

	var result whisperResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return "", errors.InvalidFormat("whisper response", "JSON with a text field").
			WithCause(err).WithDetail("status_code", resp.StatusCode)
	}
	return strings.TrimSpace(result.Text), nil
}

// GetJob returns the recorded job.
func (p *Provider) GetJob(_ context.Context, name string) (*transcription.Job, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	job, ok := p.jobs[name]
	if !ok {
		return nil, errors.NotFound("transcription job", name)
	}
	return &job, nil
}

// ListJobs returns recorded jobs whose name starts with prefix, by name.
func (p *Provider) ListJobs(_ context.Context, prefix string) ([]transcription.Job, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var jobs []transcription.Job
	for name, job := range p.jobs {
		if strings.HasPrefix(name, prefix) {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// DeleteJob forgets the job record. Unknown names are not an error.
func (p *Provider) DeleteJob(_ context.Context, name string) error {
	p.forget(name)
	return nil
}

func (p *Provider) record(job transcription.Job) {
	p.mu.Lock()
	p.jobs[job.Name] = job
	p.mu.Unlock()
}

func (p *Provider) forget(name string) {
	p.mu.Lock()
	delete(p.jobs, name)
	p.mu.Unlock()
}

// whisperLanguage reduces a BCP-47 tag such as en-US to the ISO 639-1 code
// faster-whisper expects.
func whisperLanguage(code string) string {
	lang, _, _ := strings.Cut(code, "-")
	return strings.ToLower(lang)
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

var _ transcription.Provider = (*Provider)(nil)

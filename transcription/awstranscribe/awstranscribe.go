// Package awstranscribe implements transcription.Provider on Amazon
// Transcribe batch jobs.
package awstranscribe

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/provider"
	"github.com/kbukum/asreval/storage"
	"github.com/kbukum/asreval/storage/s3"
	"github.com/kbukum/asreval/transcription"
	"github.com/kbukum/asreval/validation"
)

// ProviderName is the registered name for the AWS Transcribe provider.
const ProviderName = "aws"

// API is the subset of the Transcribe client used by Provider.
type API interface {
	StartTranscriptionJob(ctx context.Context, in *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, in *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
	ListTranscriptionJobs(ctx context.Context, in *transcribe.ListTranscriptionJobsInput, optFns ...func(*transcribe.Options)) (*transcribe.ListTranscriptionJobsOutput, error)
	DeleteTranscriptionJob(ctx context.Context, in *transcribe.DeleteTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.DeleteTranscriptionJobOutput, error)
	CreateVocabulary(ctx context.Context, in *transcribe.CreateVocabularyInput, optFns ...func(*transcribe.Options)) (*transcribe.CreateVocabularyOutput, error)
	GetVocabulary(ctx context.Context, in *transcribe.GetVocabularyInput, optFns ...func(*transcribe.Options)) (*transcribe.GetVocabularyOutput, error)
}

// Config holds AWS connection settings.
type Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// ConfigFromMap reads a Config from a loosely typed provider config.
func ConfigFromMap(m map[string]any) Config {
	s := provider.Settings(m)
	return Config{
		Region:    s.String("region"),
		Endpoint:  s.String("endpoint"),
		AccessKey: s.String("access_key"),
		SecretKey: s.String("secret_key"),
	}
}

// Provider implements transcription.Provider and
// transcription.VocabularyProvider using Amazon Transcribe.
type Provider struct {
	client API
	log    *logger.Logger
}

// New builds a Provider with a Transcribe client resolved from cfg.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Provider, error) {
	awsCfg, err := s3.LoadAWSConfig(ctx, storage.Config{
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	var opts []func(*transcribe.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *transcribe.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	return NewWithClient(transcribe.NewFromConfig(awsCfg, opts...), log), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Provider{
		client: client,
		log:    log.WithComponent("awstranscribe").WithFields(logger.Fields(logger.FieldProvider, ProviderName)),
	}
}

// Factory returns a provider.Factory that builds Providers from a config map
// with the keys region, endpoint, access_key and secret_key.
func Factory(log *logger.Logger) provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		c := ConfigFromMap(cfg)
		if c.Region == "" {
			return nil, errors.MissingField("region")
		}
		return New(context.Background(), c, log)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks that the service answers a minimal list call.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListTranscriptionJobs(ctx, &transcribe.ListTranscriptionJobsInput{
		MaxResults: aws.Int32(1),
	})
	return err == nil
}

// StartJob submits a transcription job.
func (p *Provider) StartJob(ctx context.Context, req transcription.JobRequest) (*transcription.Job, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if req.MediaURI == "" {
		return nil, errors.MissingField("media_uri")
	}

	in := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.Name),
		Media:                &types.Media{MediaFileUri: aws.String(req.MediaURI)},
		MediaFormat:          types.MediaFormat(req.MediaFormat),
		LanguageCode:         types.LanguageCode(req.LanguageCode),
	}
	if req.OutputBucket != "" {
		in.OutputBucketName = aws.String(req.OutputBucket)
	}
	if req.OutputKey != "" {
		in.OutputKey = aws.String(req.OutputKey)
	}
	if req.VocabularyName != "" {
		in.Settings = &types.Settings{VocabularyName: aws.String(req.VocabularyName)}
	}

	out, err := p.client.StartTranscriptionJob(ctx, in)
	if err != nil {
		return nil, translateError("start job", "transcription job", req.Name, err)
	}
	p.log.Debug("job started", logger.Fields(logger.FieldJob, req.Name, "media", req.MediaURI))
	if out.TranscriptionJob == nil {
		return &transcription.Job{Name: req.Name, Status: transcription.StatusQueued}, nil
	}
	return toJob(out.TranscriptionJob), nil
}

// GetJob returns the current state of a job.
func (p *Provider) GetJob(ctx context.Context, name string) (*transcription.Job, error) {
	out, err := p.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return nil, translateError("get job", "transcription job", name, err)
	}
	if out.TranscriptionJob == nil {
		return nil, errors.NotFound("transcription job", name)
	}
	return toJob(out.TranscriptionJob), nil
}

// ListJobs pages through all jobs and keeps those whose name starts with prefix.
func (p *Provider) ListJobs(ctx context.Context, prefix string) ([]transcription.Job, error) {
	in := &transcribe.ListTranscriptionJobsInput{MaxResults: aws.Int32(100)}
	if prefix != "" {
		in.JobNameContains = aws.String(prefix)
	}

	var jobs []transcription.Job
	for {
		out, err := p.client.ListTranscriptionJobs(ctx, in)
		if err != nil {
			return nil, translateError("list jobs", "transcription job", prefix, err)
		}
		for _, s := range out.TranscriptionJobSummaries {
			name := aws.ToString(s.TranscriptionJobName)
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			job := transcription.Job{
				Name:          name,
				Status:        transcription.JobStatus(s.TranscriptionJobStatus),
				FailureReason: aws.ToString(s.FailureReason),
			}
			if s.CreationTime != nil {
				job.CreatedAt = *s.CreationTime
			}
			if s.CompletionTime != nil {
				job.CompletedAt = *s.CompletionTime
			}
			jobs = append(jobs, job)
		}
		if aws.ToString(out.NextToken) == "" {
			return jobs, nil
		}
		in.NextToken = out.NextToken
	}
}

// DeleteJob removes a job record. Deleting a missing job is not an error.
func (p *Provider) DeleteJob(ctx context.Context, name string) error {
	_, err := p.client.DeleteTranscriptionJob(ctx, &transcribe.DeleteTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		appErr := translateError("delete job", "transcription job", name, err)
		if appErr.Code == errors.ErrCodeNotFound {
			return nil
		}
		return appErr
	}
	p.log.Debug("job deleted", logger.Fields(logger.FieldJob, name))
	return nil
}

// CreateVocabulary submits a custom vocabulary. Phrases win over TableURI.
func (p *Provider) CreateVocabulary(ctx context.Context, req transcription.VocabularyRequest) (*transcription.Vocabulary, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	in := &transcribe.CreateVocabularyInput{
		VocabularyName: aws.String(req.Name),
		LanguageCode:   types.LanguageCode(req.LanguageCode),
	}
	switch {
	case len(req.Phrases) > 0:
		in.Phrases = req.Phrases
	case req.TableURI != "":
		in.VocabularyFileUri = aws.String(req.TableURI)
	default:
		return nil, errors.MissingField("phrases")
	}

	out, err := p.client.CreateVocabulary(ctx, in)
	if err != nil {
		return nil, translateError("create vocabulary", "vocabulary", req.Name, err)
	}
	p.log.Info("vocabulary created", logger.Fields("vocabulary", req.Name))
	return &transcription.Vocabulary{
		Name:          aws.ToString(out.VocabularyName),
		LanguageCode:  string(out.LanguageCode),
		State:         transcription.VocabularyState(out.VocabularyState),
		FailureReason: aws.ToString(out.FailureReason),
	}, nil
}

// GetVocabulary returns the state of a custom vocabulary.
func (p *Provider) GetVocabulary(ctx context.Context, name string) (*transcription.Vocabulary, error) {
	out, err := p.client.GetVocabulary(ctx, &transcribe.GetVocabularyInput{
		VocabularyName: aws.String(name),
	})
	if err != nil {
		return nil, translateError("get vocabulary", "vocabulary", name, err)
	}
	return &transcription.Vocabulary{
		Name:          aws.ToString(out.VocabularyName),
		LanguageCode:  string(out.LanguageCode),
		State:         transcription.VocabularyState(out.VocabularyState),
		FailureReason: aws.ToString(out.FailureReason),
	}, nil
}

func toJob(j *types.TranscriptionJob) *transcription.Job {
	job := &transcription.Job{
		Name:          aws.ToString(j.TranscriptionJobName),
		Status:        transcription.JobStatus(j.TranscriptionJobStatus),
		FailureReason: aws.ToString(j.FailureReason),
	}
	if j.Transcript != nil {
		job.TranscriptURI = aws.ToString(j.Transcript.TranscriptFileUri)
	}
	if j.CreationTime != nil {
		job.CreatedAt = *j.CreationTime
	}
	if j.CompletionTime != nil {
		job.CompletedAt = *j.CompletionTime
	}
	return job
}

var (
	_ transcription.Provider           = (*Provider)(nil)
	_ transcription.VocabularyProvider = (*Provider)(nil)
)

package runner

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/observability"
	"github.com/kbukum/asreval/pipeline"
	"github.com/kbukum/asreval/resilience"
	"github.com/kbukum/asreval/storage"
	"github.com/kbukum/asreval/transcription"
)

// Summary reports the outcome of TranscribeFolder.
type Summary struct {
	RunID     string
	Total     int
	Skipped   int
	Completed int
	Failed    int
	// FailedJobs names the jobs that did not complete, by name.
	FailedJobs []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics records job counts and durations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// Runner orchestrates transcription jobs over a storage backend.
type Runner struct {
	cfg      Config
	store    storage.Storage
	provider transcription.Provider
	log      *logger.Logger
	metrics  *observability.Metrics
	limiter  *resilience.RateLimiter
}

// New validates cfg and builds a Runner.
func New(cfg Config, store storage.Storage, p transcription.Provider, log *logger.Logger, opts ...Option) (*Runner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.MissingField("storage")
	}
	if p == nil {
		return nil, errors.MissingField("provider")
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	r := &Runner{
		cfg:      cfg,
		store:    store,
		provider: p,
		log:      log.WithComponent("runner").WithFields(logger.Fields(logger.FieldProvider, p.Name())),
	}
	if cfg.StartRate > 0 {
		r.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  "job-start",
			Rate:  cfg.StartRate,
			Burst: 1,
		})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// UploadFolder uploads every transcribable file below localDir to
// InputPrefix, keeping the relative layout. It returns the number of files
// uploaded.
func (r *Runner) UploadFolder(ctx context.Context, localDir string) (n int, err error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanUploadFolder, "")
	defer func() { op.End(err) }()

	var files []string
	err = filepath.WalkDir(localDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && transcription.IsTranscribable(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, errors.NotFound("directory", localDir).WithCause(err)
	}

	uploaded := pipeline.Parallel(pipeline.FromSlice(files), r.cfg.Concurrency, func(ctx context.Context, src string) (string, error) {
		rel, err := filepath.Rel(localDir, src)
		if err != nil {
			return "", errors.Internal(err)
		}
		key := r.cfg.InputPrefix + filepath.ToSlash(rel)
		err = resilience.RetryFunc(ctx, r.cfg.Retry, func() error {
			return storage.UploadFile(ctx, r.store, key, src)
		})
		if err != nil {
			return "", err
		}
		r.log.Debug("uploaded media", logger.Fields(logger.FieldKey, key))
		return key, nil
	})
	keys, err := pipeline.Collect(ctx, uploaded)
	r.log.Info("upload finished", logger.Fields(logger.FieldCount, len(keys)))
	return len(keys), err
}

// TranscribeFolder starts one job per transcribable object under
// InputPrefix and waits for every job to finish. Jobs run in parallel up to
// Concurrency and are started no faster than StartRate. A failed job is
// counted, not returned as an error; errors are reserved for listing
// failures and cancellation.
func (r *Runner) TranscribeFolder(ctx context.Context) (summary Summary, err error) {
	summary.RunID = uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, summary.RunID)
	ctx, op := observability.StartOperation(ctx, observability.SpanTranscribeFolder, summary.RunID)
	defer func() { op.End(err) }()
	log := r.log.WithContext(ctx)

	objects, err := resilience.Retry(ctx, r.cfg.Retry, func() ([]storage.FileInfo, error) {
		return r.store.List(ctx, r.cfg.InputPrefix)
	})
	if err != nil {
		return summary, err
	}
	summary.Total = len(objects)

	media := pipeline.Filter(pipeline.FromSlice(objects), func(f storage.FileInfo) bool {
		return transcription.IsTranscribable(f.Path)
	})
	started := media
	if r.limiter != nil {
		started = pipeline.RateLimit(media, r.limiter)
	}
	jobs := pipeline.Parallel(started, r.cfg.Concurrency, func(ctx context.Context, f storage.FileInfo) (transcription.Job, error) {
		return r.runJob(ctx, f.Path)
	})
	counted := pipeline.Reduce(jobs, summary, func(s Summary, job transcription.Job) Summary {
		if job.Status == transcription.StatusCompleted {
			s.Completed++
		} else {
			s.Failed++
			s.FailedJobs = append(s.FailedJobs, job.Name)
		}
		return s
	})

	out, err := pipeline.Collect(ctx, counted)
	if err != nil {
		return summary, err
	}
	if len(out) == 1 {
		summary = out[0]
	}
	slices.Sort(summary.FailedJobs)
	summary.Skipped = summary.Total - summary.Completed - summary.Failed
	observability.SetSpanAttribute(ctx, observability.AttrSampleCount, summary.Total)

	log.Info("transcription finished", logger.Fields(
		"completed", summary.Completed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	))
	return summary, nil
}

// runJob starts the job for key and waits for it. Provider errors become a
// FAILED job so one bad file does not stop the batch; only cancellation is
// returned.
func (r *Runner) runJob(ctx context.Context, key string) (transcription.Job, error) {
	name := transcription.JobName(r.cfg.Version, key)
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribeJob)
	defer span.End()
	span.SetAttributes(attribute.String(observability.AttrJobName, name))
	log := r.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldJob, name, logger.FieldKey, key))
	start := time.Now()

	job, err := r.startJob(ctx, r.jobRequest(name, key))
	if err == nil && !job.Status.Terminal() {
		job, err = r.WaitForJob(ctx, name)
	}
	if err != nil {
		if ctx.Err() != nil {
			return transcription.Job{}, ctx.Err()
		}
		observability.SetSpanError(ctx, err)
		log.Error("transcription job errored", logger.Fields(logger.FieldError, err.Error()))
		job = &transcription.Job{Name: name, Status: transcription.StatusFailed, FailureReason: err.Error()}
	}

	span.SetAttributes(attribute.String(observability.AttrJobStatus, string(job.Status)))
	r.metrics.RecordJob(ctx, string(job.Status), time.Since(start))
	if job.Status == transcription.StatusFailed {
		log.Warn("transcription job failed", logger.Fields("reason", job.FailureReason))
	} else {
		log.Info("transcription job completed", logger.DurationFields("transcribe", time.Since(start)))
	}
	return *job, nil
}

func (r *Runner) jobRequest(name, key string) transcription.JobRequest {
	req := transcription.JobRequest{
		Name:           name,
		MediaPath:      key,
		MediaFormat:    r.cfg.MediaFormat,
		LanguageCode:   r.cfg.LanguageCode,
		OutputKey:      r.cfg.OutputPrefix,
		VocabularyName: r.cfg.VocabularyName,
	}
	if req.MediaFormat == "" {
		req.MediaFormat = transcription.MediaFormatOf(key)
	}
	if b, ok := r.store.(storage.Bucketed); ok {
		req.MediaURI = b.ObjectURI(key)
		req.OutputBucket = b.Bucket()
	}
	return req
}

// startJob submits req. A job that already exists under the same name is
// resumed rather than restarted.
func (r *Runner) startJob(ctx context.Context, req transcription.JobRequest) (*transcription.Job, error) {
	job, err := resilience.Retry(ctx, r.cfg.Retry, func() (*transcription.Job, error) {
		return r.provider.StartJob(ctx, req)
	})
	if errors.IsCode(err, errors.ErrCodeAlreadyExists) {
		return r.getJob(ctx, req.Name)
	}
	return job, err
}

func (r *Runner) getJob(ctx context.Context, name string) (*transcription.Job, error) {
	return resilience.Retry(ctx, r.cfg.Retry, func() (*transcription.Job, error) {
		return r.provider.GetJob(ctx, name)
	})
}

// WaitForJob polls the named job every PollInterval until it reaches a
// terminal status. Transient GetJob errors are retried with backoff.
func (r *Runner) WaitForJob(ctx context.Context, name string) (*transcription.Job, error) {
	for {
		job, err := r.getJob(ctx, name)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return job, nil
		}
		r.log.Debug("waiting for job", logger.Fields(logger.FieldJob, name, logger.FieldStatus, string(job.Status)))
		if err := sleep(ctx, r.cfg.PollInterval); err != nil {
			return nil, err
		}
	}
}

// DownloadResults waits until at least expected result documents exist
// under OutputPrefix, then downloads every result document into localDir.
// It returns the local paths, sorted. expected <= 0 downloads whatever is
// there without waiting.
func (r *Runner) DownloadResults(ctx context.Context, localDir string, expected int) (paths []string, err error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanDownloadResults, "")
	defer func() { op.End(err) }()

	var keys []string
	for {
		keys, err = r.resultKeys(ctx)
		if err != nil {
			return nil, err
		}
		if len(keys) >= expected {
			break
		}
		r.log.Info("waiting for result documents", logger.Fields(logger.FieldCount, len(keys), "expected", expected))
		if err := sleep(ctx, r.cfg.PollInterval); err != nil {
			return nil, err
		}
	}

	downloaded := pipeline.Parallel(pipeline.FromSlice(keys), r.cfg.Concurrency, func(ctx context.Context, key string) (string, error) {
		dst := filepath.Join(localDir, path.Base(key))
		err := resilience.RetryFunc(ctx, r.cfg.Retry, func() error {
			return storage.DownloadFile(ctx, r.store, key, dst)
		})
		return dst, err
	})
	paths, err = pipeline.Collect(ctx, downloaded)
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	r.log.Info("downloaded results", logger.Fields(logger.FieldCount, len(paths)))
	return paths, nil
}

func (r *Runner) resultKeys(ctx context.Context) ([]string, error) {
	files, err := resilience.Retry(ctx, r.cfg.Retry, func() ([]storage.FileInfo, error) {
		return r.store.List(ctx, r.cfg.OutputPrefix)
	})
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, f := range files {
		if transcription.IsResultKey(f.Path) {
			keys = append(keys, f.Path)
		}
	}
	return keys, nil
}

// EnsureVocabulary creates the vocabulary and waits until it is READY. An
// existing vocabulary of the same name is waited on instead of recreated.
func (r *Runner) EnsureVocabulary(ctx context.Context, req transcription.VocabularyRequest) (err error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanEnsureVocabulary, "")
	defer func() { op.End(err) }()

	vp, ok := r.provider.(transcription.VocabularyProvider)
	if !ok {
		return errors.InvalidInput("provider", r.provider.Name()+" does not support custom vocabularies")
	}
	if req.LanguageCode == "" {
		req.LanguageCode = r.cfg.LanguageCode
	}
	log := r.log.WithFields(logger.Fields("vocabulary", req.Name))

	_, err = resilience.Retry(ctx, r.cfg.Retry, func() (*transcription.Vocabulary, error) {
		return vp.CreateVocabulary(ctx, req)
	})
	if err != nil && !errors.IsCode(err, errors.ErrCodeAlreadyExists) {
		return err
	}

	for {
		v, err := resilience.Retry(ctx, r.cfg.Retry, func() (*transcription.Vocabulary, error) {
			return vp.GetVocabulary(ctx, req.Name)
		})
		if err != nil {
			return err
		}
		switch v.State {
		case transcription.VocabularyReady:
			log.Info("vocabulary ready")
			return nil
		case transcription.VocabularyFailed:
			return errors.JobFailed("vocabulary", req.Name, v.FailureReason)
		}
		log.Debug("waiting for vocabulary", logger.Fields(logger.FieldStatus, string(v.State)))
		if err := sleep(ctx, r.cfg.PollInterval); err != nil {
			return err
		}
	}
}

// DeleteJobs deletes every job whose name starts with prefix and returns
// how many were deleted.
func (r *Runner) DeleteJobs(ctx context.Context, prefix string) (int, error) {
	jobs, err := resilience.Retry(ctx, r.cfg.Retry, func() ([]transcription.Job, error) {
		return r.provider.ListJobs(ctx, prefix)
	})
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, job := range jobs {
		err := resilience.RetryFunc(ctx, r.cfg.Retry, func() error {
			return r.provider.DeleteJob(ctx, job.Name)
		})
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	r.log.Info("deleted jobs", logger.Fields("prefix", prefix, logger.FieldCount, deleted))
	return deleted, nil
}

// EnsureStorage creates the storage bucket when the backend lives in one.
func (r *Runner) EnsureStorage(ctx context.Context) error {
	b, ok := r.store.(storage.Bucketed)
	if !ok {
		return nil
	}
	return resilience.RetryFunc(ctx, r.cfg.Retry, func() error {
		return b.EnsureBucket(ctx)
	})
}

// DeleteFolder deletes every stored object under prefix.
func (r *Runner) DeleteFolder(ctx context.Context, prefix string) (int, error) {
	n, err := storage.DeletePrefix(ctx, r.store, prefix)
	r.log.Info("deleted objects", logger.Fields("prefix", prefix, logger.FieldCount, n))
	return n, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package awstranscribe

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/transcription"
)

// fakeTranscribe records requests and serves canned jobs.
type fakeTranscribe struct {
	started    []*transcribe.StartTranscriptionJobInput
	jobs       map[string]types.TranscriptionJob
	deleted    []string
	vocab      *transcribe.CreateVocabularyInput
	vocabState types.VocabularyState
	listPages  [][]types.TranscriptionJobSummary
	err        error
}

func newFake() *fakeTranscribe {
	return &fakeTranscribe{jobs: map[string]types.TranscriptionJob{}}
}

func (f *fakeTranscribe) StartTranscriptionJob(_ context.Context, in *transcribe.StartTranscriptionJobInput, _ ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.started = append(f.started, in)
	job := types.TranscriptionJob{
		TranscriptionJobName:   in.TranscriptionJobName,
		TranscriptionJobStatus: types.TranscriptionJobStatusInProgress,
	}
	f.jobs[aws.ToString(in.TranscriptionJobName)] = job
	return &transcribe.StartTranscriptionJobOutput{TranscriptionJob: &job}, nil
}

func (f *fakeTranscribe) GetTranscriptionJob(_ context.Context, in *transcribe.GetTranscriptionJobInput, _ ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error) {
	job, ok := f.jobs[aws.ToString(in.TranscriptionJobName)]
	if !ok {
		return nil, &types.BadRequestException{Message: aws.String("The requested job couldn't be found. Check the job name and try your request again.")}
	}
	return &transcribe.GetTranscriptionJobOutput{TranscriptionJob: &job}, nil
}

func (f *fakeTranscribe) ListTranscriptionJobs(_ context.Context, in *transcribe.ListTranscriptionJobsInput, _ ...func(*transcribe.Options)) (*transcribe.ListTranscriptionJobsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := 0
	if in.NextToken != nil {
		page = 1
	}
	out := &transcribe.ListTranscriptionJobsOutput{}
	if page < len(f.listPages) {
		out.TranscriptionJobSummaries = f.listPages[page]
	}
	if page+1 < len(f.listPages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func (f *fakeTranscribe) DeleteTranscriptionJob(_ context.Context, in *transcribe.DeleteTranscriptionJobInput, _ ...func(*transcribe.Options)) (*transcribe.DeleteTranscriptionJobOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.TranscriptionJobName))
	return &transcribe.DeleteTranscriptionJobOutput{}, nil
}

func (f *fakeTranscribe) CreateVocabulary(_ context.Context, in *transcribe.CreateVocabularyInput, _ ...func(*transcribe.Options)) (*transcribe.CreateVocabularyOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.vocab = in
	return &transcribe.CreateVocabularyOutput{
		VocabularyName:  in.VocabularyName,
		LanguageCode:    in.LanguageCode,
		VocabularyState: types.VocabularyStatePending,
	}, nil
}

func (f *fakeTranscribe) GetVocabulary(_ context.Context, in *transcribe.GetVocabularyInput, _ ...func(*transcribe.Options)) (*transcribe.GetVocabularyOutput, error) {
	if f.vocab == nil {
		return nil, &types.NotFoundException{Message: aws.String("not found")}
	}
	return &transcribe.GetVocabularyOutput{
		VocabularyName:  in.VocabularyName,
		VocabularyState: f.vocabState,
	}, nil
}

func newTestProvider(f *fakeTranscribe) *Provider {
	return NewWithClient(f, logger.NewDefault("test"))
}

func validRequest() transcription.JobRequest {
	return transcription.JobRequest{
		Name:         "Aclip01",
		MediaURI:     "s3://asr-eval/audio/clip01.mp3",
		MediaFormat:  "mp3",
		LanguageCode: "en-US",
		OutputBucket: "asr-eval",
		OutputKey:    "transcriptions/",
	}
}

func TestStartJob(t *testing.T) {
	f := newFake()
	p := newTestProvider(f)

	req := validRequest()
	req.VocabularyName = "names"
	job, err := p.StartJob(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if job.Name != "Aclip01" || job.Status != transcription.StatusInProgress {
		t.Errorf("job = %+v", job)
	}

	in := f.started[0]
	if aws.ToString(in.Media.MediaFileUri) != req.MediaURI ||
		in.MediaFormat != types.MediaFormatMp3 ||
		in.LanguageCode != types.LanguageCodeEnUs ||
		aws.ToString(in.OutputBucketName) != "asr-eval" ||
		aws.ToString(in.OutputKey) != "transcriptions/" {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.Settings == nil || aws.ToString(in.Settings.VocabularyName) != "names" {
		t.Error("vocabulary not passed through settings")
	}
}

func TestStartJob_NoVocabularyLeavesSettingsNil(t *testing.T) {
	f := newFake()
	if _, err := newTestProvider(f).StartJob(context.Background(), validRequest()); err != nil {
		t.Fatal(err)
	}
	if f.started[0].Settings != nil {
		t.Error("settings should be nil without a vocabulary")
	}
}

func TestStartJob_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*transcription.JobRequest)
	}{
		{"missing name", func(r *transcription.JobRequest) { r.Name = "" }},
		{"missing language", func(r *transcription.JobRequest) { r.LanguageCode = "" }},
		{"missing media uri", func(r *transcription.JobRequest) { r.MediaURI = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			req := validRequest()
			tt.mutate(&req)
			if _, err := newTestProvider(f).StartJob(context.Background(), req); err == nil {
				t.Fatal("expected validation error")
			}
			if len(f.started) != 0 {
				t.Error("invalid request reached the client")
			}
		})
	}
}

func TestStartJob_Conflict(t *testing.T) {
	f := newFake()
	f.err = &types.ConflictException{Message: aws.String("exists")}
	_, err := newTestProvider(f).StartJob(context.Background(), validRequest())
	if !stderrors.Is(err, errors.New(errors.ErrCodeAlreadyExists, "")) {
		t.Fatalf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestStartJob_LimitExceededIsRetryable(t *testing.T) {
	f := newFake()
	f.err = &types.LimitExceededException{Message: aws.String("slow down")}
	_, err := newTestProvider(f).StartJob(context.Background(), validRequest())
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeRateLimited || !appErr.Retryable {
		t.Fatalf("got %v", err)
	}
}

func TestGetJob(t *testing.T) {
	f := newFake()
	done := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.jobs["Aclip01"] = types.TranscriptionJob{
		TranscriptionJobName:   aws.String("Aclip01"),
		TranscriptionJobStatus: types.TranscriptionJobStatusCompleted,
		Transcript:             &types.Transcript{TranscriptFileUri: aws.String("https://s3/x.json")},
		CompletionTime:         &done,
	}

	job, err := newTestProvider(f).GetJob(context.Background(), "Aclip01")
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != transcription.StatusCompleted || job.TranscriptURI != "https://s3/x.json" || !job.CompletedAt.Equal(done) {
		t.Errorf("job = %+v", job)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	_, err := newTestProvider(newFake()).GetJob(context.Background(), "missing")
	if !stderrors.Is(err, errors.New(errors.ErrCodeNotFound, "")) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListJobs_PagesAndFiltersByPrefix(t *testing.T) {
	f := newFake()
	summary := func(name string) types.TranscriptionJobSummary {
		return types.TranscriptionJobSummary{
			TranscriptionJobName:   aws.String(name),
			TranscriptionJobStatus: types.TranscriptionJobStatusCompleted,
		}
	}
	f.listPages = [][]types.TranscriptionJobSummary{
		{summary("Aclip01"), summary("xAclip")},
		{summary("Aclip02")},
	}

	jobs, err := newTestProvider(f).ListJobs(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 || jobs[0].Name != "Aclip01" || jobs[1].Name != "Aclip02" {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestDeleteJob(t *testing.T) {
	f := newFake()
	if err := newTestProvider(f).DeleteJob(context.Background(), "Aclip01"); err != nil {
		t.Fatal(err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "Aclip01" {
		t.Errorf("deleted = %v", f.deleted)
	}

	f.err = &types.NotFoundException{Message: aws.String("gone")}
	if err := newTestProvider(f).DeleteJob(context.Background(), "gone"); err != nil {
		t.Errorf("deleting a missing job should succeed, got %v", err)
	}
}

func TestCreateVocabulary(t *testing.T) {
	tests := []struct {
		name       string
		req        transcription.VocabularyRequest
		wantPhrase bool
		wantURI    bool
		wantErr    bool
	}{
		{"phrases", transcription.VocabularyRequest{Name: "v", LanguageCode: "en-US", Phrases: []string{"Kubernetes"}, TableURI: "s3://b/t.txt"}, true, false, false},
		{"table", transcription.VocabularyRequest{Name: "v", LanguageCode: "en-US", TableURI: "s3://b/t.txt"}, false, true, false},
		{"neither", transcription.VocabularyRequest{Name: "v", LanguageCode: "en-US"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			v, err := newTestProvider(f).CreateVocabulary(context.Background(), tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if v.State != transcription.VocabularyPending {
				t.Errorf("state = %s", v.State)
			}
			if (len(f.vocab.Phrases) > 0) != tt.wantPhrase || (f.vocab.VocabularyFileUri != nil) != tt.wantURI {
				t.Errorf("input = %+v", f.vocab)
			}
		})
	}
}

func TestGetVocabulary(t *testing.T) {
	f := newFake()
	p := newTestProvider(f)

	if _, err := p.GetVocabulary(context.Background(), "v"); !stderrors.Is(err, errors.New(errors.ErrCodeNotFound, "")) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	f.vocab = &transcribe.CreateVocabularyInput{}
	f.vocabState = types.VocabularyStateReady
	v, err := p.GetVocabulary(context.Background(), "v")
	if err != nil || v.State != transcription.VocabularyReady {
		t.Fatalf("GetVocabulary = %+v, %v", v, err)
	}
}

func TestIsAvailable(t *testing.T) {
	f := newFake()
	p := newTestProvider(f)
	if !p.IsAvailable(context.Background()) {
		t.Error("expected available")
	}
	f.err = stderrors.New("no network")
	if p.IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
}

func TestFactory_RequiresRegion(t *testing.T) {
	_, err := Factory(nil)(map[string]any{})
	if !stderrors.Is(err, errors.New(errors.ErrCodeMissingField, "")) {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
}

func TestConfigFromMap(t *testing.T) {
	c := ConfigFromMap(map[string]any{"region": "eu-west-1", "access_key": "AK", "secret_key": 42})
	if c.Region != "eu-west-1" || c.AccessKey != "AK" || c.SecretKey != "42" || c.Endpoint != "" {
		t.Errorf("config = %+v", c)
	}
}

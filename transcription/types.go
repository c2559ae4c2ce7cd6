package transcription

import "time"

// JobStatus is the lifecycle state of a transcription job.
type JobStatus string

// Job statuses.
const (
	StatusQueued     JobStatus = "QUEUED"
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the job will not change status any more.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// JobRequest describes a transcription job to start.
type JobRequest struct {
	// Name uniquely identifies the job within the account.
	Name string `json:"name" validate:"required,max=200"`
	// MediaURI is the provider-native location of the media (s3://bucket/key).
	MediaURI string `json:"media_uri,omitempty"`
	// MediaPath is the storage key of the media, for backends that read it
	// through storage.Storage.
	MediaPath string `json:"media_path,omitempty"`
	// MediaFormat is the container format (mp3, wav, flac, ogg, m4a, mp4).
	MediaFormat string `json:"media_format" validate:"required"`
	// LanguageCode is the BCP-47 language of the audio (e.g. en-US).
	LanguageCode string `json:"language_code" validate:"required"`
	// OutputBucket receives the result document.
	OutputBucket string `json:"output_bucket,omitempty"`
	// OutputKey is the folder (ending in "/") or full key of the result document.
	OutputKey string `json:"output_key,omitempty"`
	// VocabularyName selects a custom vocabulary, if any.
	VocabularyName string `json:"vocabulary_name,omitempty"`
}

// Job is the provider's view of a transcription job.
type Job struct {
	Name          string    `json:"name"`
	Status        JobStatus `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	TranscriptURI string    `json:"transcript_uri,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	CompletedAt   time.Time `json:"completed_at,omitzero"`
}

// VocabularyState is the lifecycle state of a custom vocabulary.
type VocabularyState string

// Vocabulary states.
const (
	VocabularyPending VocabularyState = "PENDING"
	VocabularyReady   VocabularyState = "READY"
	VocabularyFailed  VocabularyState = "FAILED"
)

// VocabularyRequest describes a custom vocabulary. Phrases take precedence
// over TableURI when both are set.
type VocabularyRequest struct {
	Name         string   `json:"name" validate:"required"`
	LanguageCode string   `json:"language_code" validate:"required"`
	Phrases      []string `json:"phrases,omitempty"`
	TableURI     string   `json:"table_uri,omitempty"`
}

// Vocabulary is the provider's view of a custom vocabulary.
type Vocabulary struct {
	Name          string          `json:"name"`
	LanguageCode  string          `json:"language_code"`
	State         VocabularyState `json:"state"`
	FailureReason string          `json:"failure_reason,omitempty"`
}

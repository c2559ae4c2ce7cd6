package transcription

import (
	"context"

	"github.com/kbukum/asreval/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// StartJob submits a job. Synchronous backends may return it already
	// in a terminal status.
	StartJob(ctx context.Context, req JobRequest) (*Job, error)

	// GetJob returns the current state of the named job. Unknown jobs yield
	// a NOT_FOUND error.
	GetJob(ctx context.Context, name string) (*Job, error)

	// ListJobs returns every job whose name starts with prefix.
	ListJobs(ctx context.Context, prefix string) ([]Job, error)

	// DeleteJob removes the job record. The result document is left in place.
	DeleteJob(ctx context.Context, name string) error
}

// VocabularyProvider is optionally implemented by backends that support
// custom vocabularies.
type VocabularyProvider interface {
	CreateVocabulary(ctx context.Context, req VocabularyRequest) (*Vocabulary, error)
	GetVocabulary(ctx context.Context, name string) (*Vocabulary, error)
}

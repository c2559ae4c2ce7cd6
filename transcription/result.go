package transcription

import (
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"github.com/kbukum/asreval/errors"
)

// ResultExt is the file extension of result documents.
const ResultExt = ".json"

// ResultDocument mirrors the job result JSON written by AWS Transcribe. The
// whisper backend writes the same shape so downstream tooling reads either.
type ResultDocument struct {
	JobName   string  `json:"jobName"`
	AccountID string  `json:"accountId,omitempty"`
	Status    string  `json:"status"`
	Results   Results `json:"results"`
}

// Results holds the transcript alternatives of a result document.
type Results struct {
	Transcripts []TranscriptText `json:"transcripts"`
}

// TranscriptText is one transcript alternative.
type TranscriptText struct {
	Transcript string `json:"transcript"`
}

// NewResultDocument builds a completed result document holding text.
func NewResultDocument(jobName, text string) ResultDocument {
	return ResultDocument{
		JobName: jobName,
		Status:  string(StatusCompleted),
		Results: Results{Transcripts: []TranscriptText{{Transcript: text}}},
	}
}

// Transcript returns the first transcript alternative.
func (d *ResultDocument) Transcript() (string, error) {
	if len(d.Results.Transcripts) == 0 {
		return "", errors.InvalidFormat("results.transcripts", "at least one transcript").
			WithDetail("job", d.JobName)
	}
	return d.Results.Transcripts[0].Transcript, nil
}

// ParseResult decodes a result document and returns its transcript.
func ParseResult(r io.Reader) (string, error) {
	var doc ResultDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", errors.InvalidFormat("result document", "transcription job JSON").WithCause(err)
	}
	return doc.Transcript()
}

// ReadTranscript reads the result document at path and returns its transcript.
func ReadTranscript(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NotFound("result document", path).WithCause(err)
	}
	defer f.Close()

	text, err := ParseResult(f)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return "", appErr.WithDetail("path", path)
		}
		return "", err
	}
	return text, nil
}

// ResultKey returns the key under which a job writes its result document.
// An outputKey ending in "/" is a folder; anything else is used verbatim.
func ResultKey(outputKey, jobName string) string {
	if outputKey == "" || strings.HasSuffix(outputKey, "/") {
		return outputKey + jobName + ResultExt
	}
	return outputKey
}

// IsResultKey reports whether key names a result document, as opposed to
// folder markers or the access-check files some providers leave behind.
func IsResultKey(key string) bool {
	base := path.Base(key)
	return strings.HasSuffix(key, ResultExt) && !strings.HasPrefix(base, ".")
}

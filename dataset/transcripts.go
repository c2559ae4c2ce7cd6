package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/transcription"
)

// Header of the transcript export.
const (
	ColumnID         = "Id"
	ColumnTranscript = "Amazon Transcript"
)

// Transcript is one exported transcript.
type Transcript struct {
	ID   string
	Text string
}

// WriteTranscripts writes transcripts as a CSV with an Id column and a
// transcript column.
func WriteTranscripts(w io.Writer, transcripts []Transcript) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnID, ColumnTranscript}); err != nil {
		return errors.Internal(err)
	}
	for _, t := range transcripts {
		if err := cw.Write([]string{t.ID, t.Text}); err != nil {
			return errors.Internal(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// CollectTranscripts reads every result document directly inside dir. The
// id of a transcript is its file stem without the leading version letter.
// Results are sorted by id.
func CollectTranscripts(dir string) ([]Transcript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NotFound("directory", dir).WithCause(err)
	}
	var out []Transcript
	for _, e := range entries {
		if e.IsDir() || !transcription.IsResultKey(e.Name()) {
			continue
		}
		text, err := transcription.ReadTranscript(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		_, id := transcription.SplitJobName(e.Name())
		out = append(out, Transcript{ID: id, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/evaluation"
)

// Columns names the CSV columns holding each Sample field.
type Columns struct {
	ID         string `yaml:"id" mapstructure:"id"`
	Reference  string `yaml:"reference" mapstructure:"reference"`
	Hypothesis string `yaml:"hypothesis" mapstructure:"hypothesis"`
}

// DefaultColumns returns the id, reference and hypothesis column names.
func DefaultColumns() Columns {
	return Columns{ID: "id", Reference: "reference", Hypothesis: "hypothesis"}
}

// ReadSamples reads samples from a CSV with a header row. Column names are
// matched case-insensitively; empty names in cols fall back to the defaults.
func ReadSamples(r io.Reader, cols Columns) ([]evaluation.Sample, error) {
	def := DefaultColumns()
	if cols.ID == "" {
		cols.ID = def.ID
	}
	if cols.Reference == "" {
		cols.Reference = def.Reference
	}
	if cols.Hypothesis == "" {
		cols.Hypothesis = def.Hypothesis
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.InvalidFormat("samples", "CSV with a header row")
	}
	if err != nil {
		return nil, errors.InvalidFormat("samples", "CSV").WithCause(err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return 0, errors.MissingField(name).WithDetail("header", header)
		}
		return i, nil
	}
	idCol, err := lookup(cols.ID)
	if err != nil {
		return nil, err
	}
	refCol, err := lookup(cols.Reference)
	if err != nil {
		return nil, err
	}
	hypCol, err := lookup(cols.Hypothesis)
	if err != nil {
		return nil, err
	}

	var samples []evaluation.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, errors.InvalidFormat("samples", "CSV").WithCause(err).WithDetail("line", line)
		}
		field := func(i int) string {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}
		samples = append(samples, evaluation.Sample{
			ID:         field(idCol),
			Reference:  field(refCol),
			Hypothesis: field(hypCol),
		})
	}
}

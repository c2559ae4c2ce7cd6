package evaluation

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/asreval/observability"
	"github.com/kbukum/asreval/scoring"
	"github.com/kbukum/asreval/textnorm"
)

func TestEvaluate(t *testing.T) {
	e := &Evaluator{Config: textnorm.NewCleaningConfig(), Concurrency: 2}
	samples := []Sample{
		{ID: "0001", Reference: "a b c", Hypothesis: "a b"},
		{ID: "0002", Reference: "!!!", Hypothesis: "x"},
		{ID: "0003", Reference: "a", Hypothesis: "a"},
	}

	report, err := e.Evaluate(context.Background(), samples)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if report.Scored != 2 || report.Skipped != 1 {
		t.Errorf("scored=%d skipped=%d", report.Scored, report.Skipped)
	}
	if report.WeightedWER != 25 || report.WeightedCER != 30 {
		t.Errorf("weighted WER=%v CER=%v, want 25 and 30", report.WeightedWER, report.WeightedCER)
	}

	want := []Result{
		{ID: "0001", WER: 33.33, CER: 40, RefWords: 3},
		{ID: "0002"},
		{ID: "0003", WER: 0, CER: 0, RefWords: 1},
	}
	for i, got := range report.Results {
		w := want[i]
		if got.ID != w.ID || got.WER != w.WER || got.CER != w.CER || got.RefWords != w.RefWords {
			t.Errorf("result %d = %+v, want %+v", i, got, w)
		}
	}
	if !stderrors.Is(report.Results[1].Err, scoring.ErrEmptyReference) {
		t.Errorf("expected empty reference error, got %v", report.Results[1].Err)
	}
}

func TestEvaluate_PreservesOrder(t *testing.T) {
	e := &Evaluator{Config: textnorm.NewCleaningConfig(), Concurrency: 8}
	var samples []Sample
	for i := range 200 {
		ref := strings.Repeat("w ", i%7+1)
		samples = append(samples, Sample{ID: fmt.Sprintf("%04d", i), Reference: ref, Hypothesis: "w"})
	}

	report, err := e.Evaluate(context.Background(), samples)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range report.Results {
		if r.ID != samples[i].ID {
			t.Fatalf("result %d has id %s, want %s", i, r.ID, samples[i].ID)
		}
		if r.RefWords != i%7+1 {
			t.Fatalf("result %d has %d reference words", i, r.RefWords)
		}
	}
}

func TestEvaluate_NothingScored(t *testing.T) {
	e := &Evaluator{Config: textnorm.NewCleaningConfig()}
	report, err := e.Evaluate(context.Background(), []Sample{{ID: "x", Reference: "", Hypothesis: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	if report.Scored != 0 || report.Skipped != 1 || report.WeightedWER != 0 || report.WeightedCER != 0 {
		t.Errorf("report = %+v", report)
	}

	report, err = e.Evaluate(context.Background(), nil)
	if err != nil || len(report.Results) != 0 {
		t.Errorf("empty batch: %+v, %v", report, err)
	}
}

func TestEvaluate_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	m, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	e := &Evaluator{Config: textnorm.NewCleaningConfig(), Metrics: m}
	_, err = e.Evaluate(context.Background(), []Sample{
		{ID: "1", Reference: "a b", Hypothesis: "a b"},
		{ID: "2", Reference: "", Hypothesis: "a"},
	})
	if err != nil {
		t.Fatal(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var samplesTotal int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name == "samples.total" {
				for _, dp := range md.Data.(metricdata.Sum[int64]).DataPoints {
					samplesTotal += dp.Value
				}
			}
		}
	}
	if samplesTotal != 2 {
		t.Errorf("samples.total = %d, want 2", samplesTotal)
	}
}

func TestCompareWords(t *testing.T) {
	common, missing, extra := CompareWords(
		strings.Fields("the cat sat on the mat"),
		strings.Fields("a cat sat on a hat"),
	)
	if got := strings.Join(common, ","); got != "cat,on,sat" {
		t.Errorf("common = %s", got)
	}
	if got := strings.Join(missing, ","); got != "mat,the" {
		t.Errorf("missing = %s", got)
	}
	if got := strings.Join(extra, ","); got != "a,hat" {
		t.Errorf("extra = %s", got)
	}

	common, missing, extra = CompareWords(nil, nil)
	if len(common)+len(missing)+len(extra) != 0 {
		t.Error("expected empty results")
	}
}

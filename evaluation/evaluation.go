package evaluation

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/observability"
	"github.com/kbukum/asreval/pipeline"
	"github.com/kbukum/asreval/scoring"
	"github.com/kbukum/asreval/textnorm"
)

const defaultConcurrency = 4

// Sample is one reference/hypothesis pair.
type Sample struct {
	ID         string
	Reference  string
	Hypothesis string
}

// Result is the score of one Sample. Err is set, and the rates are zero,
// when the sample could not be scored.
type Result struct {
	ID       string
	WER      float64
	CER      float64
	RefWords int
	Err      error
}

// Report is the outcome of one evaluation run.
type Report struct {
	RunID       string
	Results     []Result
	Scored      int
	Skipped     int
	WeightedWER float64
	WeightedCER float64
}

// Evaluator scores samples with a shared cleaning configuration.
type Evaluator struct {
	Config      textnorm.CleaningConfig
	Concurrency int
	Logger      *logger.Logger
	Metrics     *observability.Metrics
}

// Evaluate scores every sample and aggregates the scored ones. Results are
// in the order of samples. When no sample can be scored the aggregates are
// zero.
func (e *Evaluator) Evaluate(ctx context.Context, samples []Sample) (report *Report, err error) {
	report = &Report{RunID: uuid.NewString()}
	ctx = logger.ContextWithRunID(ctx, report.RunID)
	ctx, op := observability.StartOperation(ctx, observability.SpanEvaluate, report.RunID,
		attribute.Int(observability.AttrSampleCount, len(samples)))
	defer func() { op.End(err) }()

	log := e.logger().WithContext(ctx)
	n := e.Concurrency
	if n <= 0 {
		n = defaultConcurrency
	}

	scored := pipeline.Parallel(pipeline.Enumerate(pipeline.FromSlice(samples)), n,
		func(ctx context.Context, s pipeline.Indexed[Sample]) (pipeline.Indexed[Result], error) {
			return pipeline.Indexed[Result]{Index: s.Index, Value: e.score(ctx, s.Value)}, nil
		})
	report.Results, err = pipeline.Ordered(ctx, scored, len(samples))
	if err != nil {
		return nil, err
	}

	var weights, wers, cers []float64
	for _, r := range report.Results {
		if r.Err != nil {
			report.Skipped++
			log.Warn("sample skipped", logger.Fields(logger.FieldSampleID, r.ID, logger.FieldError, r.Err.Error()))
			continue
		}
		report.Scored++
		weights = append(weights, float64(r.RefWords))
		wers = append(wers, r.WER)
		cers = append(cers, r.CER)
	}
	if report.Scored > 0 {
		if report.WeightedWER, err = scoring.WeightedAverage(weights, wers); err != nil {
			return nil, err
		}
		if report.WeightedCER, err = scoring.WeightedAverage(weights, cers); err != nil {
			return nil, err
		}
	}

	log.Info("evaluation finished", logger.Fields(
		"scored", report.Scored,
		"skipped", report.Skipped,
		"weighted_wer", report.WeightedWER,
		"weighted_cer", report.WeightedCER,
	))
	return report, nil
}

func (e *Evaluator) score(ctx context.Context, s Sample) Result {
	ctx, span := observability.StartSpan(ctx, observability.SpanScoreSample)
	defer span.End()
	span.SetAttributes(attribute.String(observability.AttrSampleID, s.ID))

	res := Result{ID: s.ID}
	wer, err := scoring.WordErrorRate(s.Reference, s.Hypothesis, e.Config)
	if err == nil {
		res.CER, err = scoring.CharErrorRate(s.Reference, s.Hypothesis, e.Config)
	}
	if err != nil {
		res.Err = err
		observability.SetSpanError(ctx, err)
		reason := "error"
		if appErr, ok := errors.AsAppError(err); ok {
			reason = string(appErr.Code)
		}
		e.Metrics.RecordSkipped(ctx, reason)
		return res
	}
	res.WER = wer
	res.RefWords = scoring.RefWordCount(s.Reference, e.Config)
	e.Metrics.RecordSample(ctx, res.WER, res.CER)
	return res
}

func (e *Evaluator) logger() *logger.Logger {
	l := e.Logger
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return l.WithComponent("evaluation")
}

// CompareWords returns the distinct words the two token lists share, the
// reference words missing from the hypothesis, and the hypothesis words not
// in the reference. Each list is sorted.
func CompareWords(ref, hyp []string) (common, missing, extra []string) {
	refSet := make(map[string]struct{}, len(ref))
	for _, w := range ref {
		refSet[w] = struct{}{}
	}
	hypSet := make(map[string]struct{}, len(hyp))
	for _, w := range hyp {
		hypSet[w] = struct{}{}
	}
	for w := range refSet {
		if _, ok := hypSet[w]; ok {
			common = append(common, w)
		} else {
			missing = append(missing, w)
		}
	}
	for w := range hypSet {
		if _, ok := refSet[w]; !ok {
			extra = append(extra, w)
		}
	}
	slices.Sort(common)
	slices.Sort(missing)
	slices.Sort(extra)
	return common, missing, extra
}

// Package observability provides OpenTelemetry tracing and metrics for the
// transcription runner and the batch evaluator.
//
// Telemetry is off unless enabled in config; with it off the global no-op
// providers stay installed, so instrumented code runs unchanged.
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "asreval", version.Version, "production")
//	defer shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanEvaluate, runID)
//	defer op.End(err)
//
//	metrics, err := observability.NewMetrics(observability.Meter("asreval"))
//	metrics.RecordSample(ctx, report.WER, report.CER)
package observability

// Package pipeline provides the pull-based stages the batch evaluator and
// the transcription runner are built from.
//
// Pipelines are lazy: nothing runs until Collect or Ordered pulls values,
// and each stage pulls from the one before it, so a slow consumer holds the
// producer back. Stages:
//
//   - Filter: keep values matching a predicate
//   - Reduce: fold all values into one result
//   - Enumerate: tag each value with its input position
//   - RateLimit: hold each value until a Waiter admits it
//   - Parallel: apply a function with a bounded worker pool, unordered
//
// Combine Enumerate with Parallel and Ordered when results must come back in
// input order:
//
//	src := pipeline.Enumerate(pipeline.FromSlice(samples))
//	scored := pipeline.Parallel(src, 4, func(ctx context.Context, s pipeline.Indexed[Sample]) (pipeline.Indexed[Result], error) {
//	    return pipeline.Indexed[Result]{Index: s.Index, Value: score(s.Value)}, nil
//	})
//	results, err := pipeline.Ordered(ctx, scored, len(samples))
package pipeline

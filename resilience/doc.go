// Package resilience wraps calls to cloud APIs with retries and a rate
// limit.
//
// Retry re-runs an operation with exponential backoff while its error is
// transient: an errors.AppError marked Retryable, or any error that is not
// an AppError and not a context cancellation. RateLimiter is a token
// bucket used to pace job submissions.
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 2, Burst: 1})
//	if err := rl.Wait(ctx); err != nil {
//	    return err
//	}
//	job, err := resilience.Retry(ctx, cfg, func() (*Job, error) { return start(ctx) })
package resilience

package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/asreval/errors"
)

// maxBodyDetail bounds how much of an error body is kept on the AppError.
const maxBodyDetail = 512

// ClassifyStatusCode converts an HTTP status code into an AppError.
// Returns nil for 2xx status codes.
//
//	401, 403 -> EXTERNAL_SERVICE_ERROR (not retryable)
//	404      -> NOT_FOUND
//	429      -> RATE_LIMITED
//	other 4xx -> INVALID_INPUT
//	5xx      -> SERVICE_UNAVAILABLE
func ClassifyStatusCode(service string, statusCode int, body []byte) *errors.AppError {
	var appErr *errors.AppError
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		appErr = errors.ExternalServiceError(service, fmt.Errorf("HTTP %d", statusCode))
		appErr.Retryable = false
	case statusCode == http.StatusNotFound:
		appErr = errors.NotFound(service+" resource", "")
	case statusCode == http.StatusTooManyRequests:
		appErr = errors.RateLimited(service)
	case statusCode >= 400 && statusCode < 500:
		appErr = errors.InvalidInput("request", fmt.Sprintf("%s rejected the request with HTTP %d", service, statusCode))
	case statusCode >= 500:
		appErr = errors.ServiceUnavailable(service)
	default:
		appErr = errors.ExternalServiceError(service, fmt.Errorf("unexpected HTTP %d", statusCode))
		appErr.Retryable = false
	}
	appErr = appErr.WithDetail("status_code", statusCode)
	if len(body) > 0 {
		appErr = appErr.WithDetail("body", truncate(string(body), maxBodyDetail))
	}
	return appErr
}

// transportError converts a failed round trip into an AppError.
func transportError(ctx context.Context, service string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return errors.Timeout(service + " request").WithCause(err)
		}
		return ctxErr
	}
	return errors.ServiceUnavailable(service).WithCause(err)
}

// StatusCode returns the HTTP status recorded on err, or 0.
func StatusCode(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return 0
	}
	code, _ := appErr.Details["status_code"].(int)
	return code
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	appErr, ok := errors.AsAppError(err)
	return ok && appErr.Retryable
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package s3

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/kbukum/asreval/errors"
)

const serviceName = "s3"

var throttleCodes = map[string]bool{
	"SlowDown":                 true,
	"Throttling":               true,
	"ThrottlingException":      true,
	"RequestLimitExceeded":     true,
	"RequestThrottled":         true,
	"TooManyRequestsException": true,
}

// translateError converts an S3 client error into an AppError so callers can
// branch on the code and the retry helpers know what is transient.
func translateError(op, path string, err error) *errors.AppError {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return errors.NotFound("object", path).WithCause(err)
	}
	appErr := errors.ExternalServiceError(serviceName, err).
		WithDetail("operation", op).
		WithDetail("key", path)
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case throttleCodes[apiErr.ErrorCode()]:
			return errors.RateLimited(serviceName).WithCause(err).WithDetail("operation", op)
		case apiErr.ErrorFault() == smithy.FaultServer:
			return errors.ServiceUnavailable(serviceName).WithCause(err).WithDetail("operation", op)
		case apiErr.ErrorFault() == smithy.FaultClient:
			appErr.Retryable = false
		}
		appErr.WithDetail("aws_code", apiErr.ErrorCode())
	}
	return appErr
}

func isNotFound(err error) bool {
	var (
		nf       *types.NotFound
		noKey    *types.NoSuchKey
		noBucket *types.NoSuchBucket
	)
	if stderrors.As(err, &nf) || stderrors.As(err, &noKey) || stderrors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}

func isBucketOwned(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	if stderrors.As(err, &owned) {
		return true
	}
	var apiErr smithy.APIError
	return stderrors.As(err, &apiErr) && apiErr.ErrorCode() == "BucketAlreadyOwnedByYou"
}

package awstranscribe

import (
	stderrors "errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/aws/smithy-go"

	"github.com/kbukum/asreval/errors"
)

const serviceName = "transcribe"

// translateError converts a Transcribe client error into an AppError.
func translateError(op, resource, name string, err error) *errors.AppError {
	if err == nil {
		return nil
	}

	var (
		notFound   *types.NotFoundException
		badRequest *types.BadRequestException
		conflict   *types.ConflictException
		limit      *types.LimitExceededException
		internal   *types.InternalFailureException
	)
	switch {
	case stderrors.As(err, &notFound):
		return errors.NotFound(resource, name).WithCause(err)
	case stderrors.As(err, &badRequest):
		// A missing job is reported as a bad request, not as NotFoundException.
		if strings.Contains(strings.ToLower(badRequest.ErrorMessage()), "couldn't be found") {
			return errors.NotFound(resource, name).WithCause(err)
		}
		return errors.InvalidInput(resource, badRequest.ErrorMessage()).WithCause(err).
			WithDetail("operation", op)
	case stderrors.As(err, &conflict):
		return errors.AlreadyExists(resource, name).WithCause(err)
	case stderrors.As(err, &limit):
		return errors.RateLimited(serviceName).WithCause(err).WithDetail("operation", op)
	case stderrors.As(err, &internal):
		return errors.ServiceUnavailable(serviceName).WithCause(err).WithDetail("operation", op)
	}

	appErr := errors.ExternalServiceError(serviceName, err).WithDetail("operation", op)
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.ErrorFault() == smithy.FaultClient {
			appErr.Retryable = false
		}
		appErr.WithDetail("aws_code", apiErr.ErrorCode())
	}
	return appErr
}

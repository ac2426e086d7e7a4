package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/middleware"
	"github.com/pageza/medidiet/backend/internal/repository"
	"github.com/pageza/medidiet/backend/internal/service"
)

// ToAppError classifies err into the code the client sees. Raw model output
// and provider bodies never reach the response.
func ToAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	var gwErr *service.GatewayError
	if errors.As(err, &gwErr) {
		switch {
		case gwErr.Timeout:
			return apperrors.New(apperrors.CodeLLMTimeout, "The recommendation model did not answer in time", "").WithCause(err)
		case gwErr.IsRateLimited():
			return apperrors.New(apperrors.CodeLLMRateLimited, "The recommendation model is rate limited", "Please retry later").WithCause(err)
		default:
			return apperrors.New(apperrors.CodeLLMUnavailable, "The recommendation model is unavailable", "").WithCause(err)
		}
	}

	if errors.Is(err, service.ErrInvalidLLMResponse) {
		appErr := apperrors.New(apperrors.CodeLLMResponseInvalid, "The recommendation model returned an unusable recipe", "").WithCause(err)
		var missing *service.MissingFieldError
		switch {
		case errors.As(err, &missing):
			appErr.Details = "missing required field: " + missing.Field
			appErr.WithMetadata("field", missing.Field)
		case errors.Is(err, service.ErrNoJSONObject):
			appErr.Details = "reply contained no JSON object"
		case errors.Is(err, service.ErrMalformedJSON):
			appErr.Details = "reply contained malformed JSON"
		}
		return appErr
	}

	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFoundError("Resource").WithCause(err)
	}

	return apperrors.NewInternalError(err)
}

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, ToAppError(err))
}

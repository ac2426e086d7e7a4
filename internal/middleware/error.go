package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/types"
)

// AbortWithError renders appErr as the JSON error body and stops the chain.
// The cause is attached to the gin context for the access log only.
func AbortWithError(c *gin.Context, appErr *apperrors.AppError) {
	if appErr.Cause != nil {
		_ = c.Error(appErr.Cause)
	}
	c.AbortWithStatusJSON(appErr.StatusCode(), types.ErrorResponse{
		Code:      string(appErr.Code),
		Message:   appErr.Message,
		Details:   appErr.Details,
		Metadata:  appErr.Metadata,
		RequestID: c.GetString(ContextKeyRequestID),
	})
}

// Recovery turns a panic into an INTERNAL_ERROR response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					zap.String("request_id", c.GetString(ContextKeyRequestID)),
					zap.Any("error", r),
					zap.String("stack", string(debug.Stack())),
				)
				AbortWithError(c, apperrors.NewInternalError(nil))
			}
		}()

		c.Next()
	}
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"karya-backend/internal/delivery/http/response"
	"karya-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				// Wrapped provider payloads stay server-side
				if appErr.Err != nil {
					slog.Error("Request failed", "path", c.FullPath(), "code", appErr.Code, "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				// SECURITY: Never expose internal error details to clients.
				slog.Error("Unhandled request error", "path", c.FullPath(), "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}

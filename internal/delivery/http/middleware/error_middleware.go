package middleware

import (
	"errors"
	"net/http"

	"elitesite-backend/internal/delivery/http/response"
	"elitesite-backend/pkg/apperror"
	"elitesite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString("RequestID")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			// Underlying causes (transport errors, credentials in dial errors) stay in the server log
			if appErr.Err != nil {
				logger.Log.ErrorContext(c.Request.Context(), "request failed",
					"request_id", requestID,
					"path", c.FullPath(),
					"status", appErr.Code,
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		logger.Log.ErrorContext(c.Request.Context(), "internal server error",
			"request_id", requestID,
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}

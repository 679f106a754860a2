package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/medihub-api/internal/apperr"
)

// ErrorHandler writes the failure envelope for the last error a handler
// attached with c.Error. Nothing is written when the response already went out.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, message := apperr.Normalize(err)
		if status >= 500 {
			logger.Error().
				Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, gin.H{
			"success":    false,
			"statusCode": status,
			"message":    message,
		})
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/medihub-api/internal/apperr"
)

// Recovery logs a panicking request and answers it with a 500 envelope. The
// process keeps serving other requests.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				logger.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{
						"success":    false,
						"statusCode": http.StatusInternalServerError,
						"message":    apperr.MsgInternal,
					})
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

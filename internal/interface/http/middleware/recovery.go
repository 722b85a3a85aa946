package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// Recovery 捕获panic，记录堆栈并返回500 COMMON_003
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")

				response.Abort(c, apperrors.ErrInternal.WithCause(fmt.Errorf("panic: %v", r)))
			}
		}()

		c.Next()
	}
}

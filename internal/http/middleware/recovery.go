package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/shared/apperr"
	"orderdesk.io/app/pkg/logger"
)

// Recovery logs the panic with its stack and hands a 500 to ErrorHandler.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic_recovered",
			logger.String("request_id", GetRequestID(c)),
			logger.Any("panic", recovered),
			logger.String("stack", string(debug.Stack())),
		)

		Fail(c, apperr.Wrap(fmt.Errorf("panic: %v", recovered)))
	})
}

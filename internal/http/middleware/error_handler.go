package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/shared/apperr"
	"orderdesk.io/app/pkg/logger"
	"orderdesk.io/app/pkg/view"
)

func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last error pushed with c.Error, unless the
// handler already wrote a response.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		fields := []logger.Field{
			logger.String("request_id", rid),
			logger.Int("status", status),
			logger.Error(err),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request_failed", fields...)
		} else {
			log.Warn("request_failed", fields...)
		}

		if WantsJSON(c) {
			payload := gin.H{
				"error":      publicMsg,
				"request_id": rid,
			}
			if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Abort()
		c.HTML(status, "error.html", view.ErrorPage{
			Status:    status,
			Title:     http.StatusText(status),
			Message:   publicMsg,
			RequestID: rid,
		})
	}
}

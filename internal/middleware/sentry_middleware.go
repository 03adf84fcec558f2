package middleware

import (
	"fmt"

	"gym_crm_backend/pkg/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware wraps each request in a Sentry transaction and reports
// any errors the handlers attached to the context.
func SentryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub()
		if hub == nil {
			c.Next()
			return
		}

		transactionName := fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path)
		transaction := sentry.StartTransaction(
			c.Request.Context(),
			transactionName,
			sentry.ContinueFromRequest(c.Request),
		)
		defer func() {
			transaction.Status = sentry.HTTPtoSpanStatus(c.Writer.Status())
			transaction.Finish()
		}()

		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("http.method", c.Request.Method)
			scope.SetTag("http.route", c.Request.URL.Path)
		})

		c.Request = c.Request.WithContext(transaction.Context())
		c.Next()

		for _, ginErr := range c.Errors {
			utils.CaptureError(ginErr.Err)
		}
	}
}

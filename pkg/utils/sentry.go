package utils

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the Sentry client from SENTRY_DSN. An empty DSN
// disables reporting and is not an error.
func InitSentry() error {
	dsn := Getenv("SENTRY_DSN", "")
	if dsn == "" {
		LogInfo("SENTRY_DSN not set, error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      Getenv("APP_ENV", "development"),
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}
	LogInfo("Sentry initialized")
	return nil
}

// CaptureError reports an error to Sentry if the client is configured.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// FlushSentry drains buffered events on shutdown.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single status request when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// maxDrain caps how much of an ignored response body is read so the
// connection can be reused.
const maxDrain = 64 << 10

// Checker performs one status check against endpoint. identifier is only used
// to correlate log lines. Implementations never panic and never return an
// error: every fault is reported as Failure.
type Checker interface {
	Check(ctx context.Context, identifier, endpoint string) Outcome
}

// CheckerFunc adapts an ordinary function to the Checker interface.
type CheckerFunc func(ctx context.Context, identifier, endpoint string) Outcome

func (f CheckerFunc) Check(ctx context.Context, identifier, endpoint string) Outcome {
	return f(ctx, identifier, endpoint)
}

// HTTPChecker checks an endpoint with a plain HTTP GET.
type HTTPChecker struct {
	name   string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPChecker creates a checker whose requests time out after timeout.
// A non-positive timeout falls back to DefaultTimeout. name labels the
// checker's log lines.
func NewHTTPChecker(name string, timeout time.Duration, logger *slog.Logger) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPChecker{
		name: name,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("checker", name)),
	}
}

// Check sends a GET to endpoint and classifies the response status.
func (c *HTTPChecker) Check(ctx context.Context, identifier, endpoint string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Status check panicked",
				slog.String("identifier", identifier),
				slog.String("endpoint", endpoint),
				slog.Any("panic", r))
			outcome = Failure
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to build status request",
			slog.String("identifier", identifier),
			slog.String("endpoint", endpoint),
			slog.Any("err", err))
		return Failure
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Status request failed",
			slog.String("identifier", identifier),
			slog.String("endpoint", endpoint),
			slog.Any("err", fmt.Errorf("get %s: %w", endpoint, err)))
		return Failure
	}
	defer res.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxDrain))

	outcome = FromStatusCode(res.StatusCode)

	c.logger.Info("Status response",
		slog.String("identifier", identifier),
		slog.String("endpoint", endpoint),
		slog.Int("status_code", res.StatusCode),
		slog.String("outcome", outcome.String()))

	return outcome
}

package status

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")
	ErrNilChecker         = errors.New("checker is nil")
)

type retryChecker struct {
	checker     Checker
	maxAttempts int
}

// WithRetry returns a Checker that calls checker again while it answers
// RetryAfter, up to maxAttempts calls in total. The first outcome that is not
// RetryAfter is returned; once the budget is spent the last outcome is
// returned as is, even if it is still RetryAfter. There is no delay between
// attempts.
func WithRetry(checker Checker, maxAttempts int) (Checker, error) {
	if checker == nil {
		return nil, ErrNilChecker
	}

	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, maxAttempts)
	}

	return &retryChecker{
		checker:     checker,
		maxAttempts: maxAttempts,
	}, nil
}

func (r *retryChecker) Check(ctx context.Context, identifier, endpoint string) Outcome {
	var outcome Outcome

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		outcome = r.checker.Check(ctx, identifier, endpoint)
		if outcome != RetryAfter {
			return outcome
		}

		// A cancelled caller gets the last answer instead of more attempts.
		if ctx.Err() != nil {
			break
		}
	}

	return outcome
}

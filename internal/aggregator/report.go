package aggregator

import (
	"fmt"
	"time"

	"github.com/angeloszaimis/statusfan/internal/status"
)

// Verdict is the combined result of both status checks.
type Verdict string

const (
	VerdictSuccess Verdict = "Success"
	VerdictFailure Verdict = "Failure"
)

func (v Verdict) String() string {
	return string(v)
}

// Report is produced once per Aggregate call.
type Report struct {
	ApplicationID string
	Verdict       Verdict
	Description   string
	Timestamp     time.Time
}

// Combine returns VerdictSuccess iff both outcomes are status.Success.
func Combine(first, second status.Outcome) Verdict {
	if succeeded(first) && succeeded(second) {
		return VerdictSuccess
	}
	return VerdictFailure
}

func succeeded(o status.Outcome) bool {
	switch o {
	case status.Success:
		return true
	case status.RetryAfter, status.Failure:
		return false
	default:
		return false
	}
}

// Describe renders both raw outcomes in check order.
func Describe(first, second status.Outcome) string {
	return fmt.Sprintf("Status 1: %s, Status 2: %s", first, second)
}

package status

import "net/http"

// Outcome is the result of a single status check.
type Outcome string

const (
	Success    Outcome = "Success"
	RetryAfter Outcome = "RetryAfter"
	Failure    Outcome = "Failure"
)

func (o Outcome) String() string {
	return string(o)
}

// Valid reports whether o is one of the declared outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case Success, RetryAfter, Failure:
		return true
	default:
		return false
	}
}

// FromStatusCode maps an HTTP status code to an Outcome.
func FromStatusCode(code int) Outcome {
	switch code {
	case http.StatusOK:
		return Success
	case http.StatusTooManyRequests:
		return RetryAfter
	default:
		return Failure
	}
}

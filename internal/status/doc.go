// Package status queries remote status endpoints and classifies the answer.
//
// A Checker issues one HTTP GET per call and reduces the response to an
// Outcome: 200 is Success, 429 is RetryAfter and everything else, including
// transport errors, is Failure. WithRetry composes a Checker with a bounded
// retry policy for the RetryAfter case.
package status

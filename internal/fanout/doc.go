// Package fanout runs independent units of work concurrently and joins them
// before returning. Results are kept in input order, not completion order.
//
// The width of the fan-out is explicit: a limit of zero or less starts every
// unit at once, a positive limit gates the number of in-flight units the way
// a worker pool would.
package fanout

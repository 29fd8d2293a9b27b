// Package stub serves a single fixed-response status route for local runs of
// the aggregator. It can be told to answer with a fixed status code or to
// answer 429 once a token-bucket rate is exceeded.
package stub

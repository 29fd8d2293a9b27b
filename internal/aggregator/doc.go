// Package aggregator combines two independent status checks into one verdict.
//
// Both checks run concurrently, each behind its own retry policy, and the
// aggregator waits for both before it builds a Report. The verdict is Success
// only when both checks succeeded.
package aggregator

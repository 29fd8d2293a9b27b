// Package dispatch fans one event's payload out to every recipient and keeps
// doing so cycle after cycle.
//
// A Source produces the next Event, a Broadcaster sends its payload to all
// recipients concurrently and a Runner drives the fetch/broadcast loop until
// its context is cancelled. Faults are absorbed at two levels: a failed send
// only marks its own recipient Rejected, and a failed cycle is logged and the
// loop moves on to the next one.
package dispatch

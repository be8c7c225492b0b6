// Package batch runs a function over many items with bounded concurrency.
//
// Items are split into fixed-size batches; batches run concurrently up to a
// limit and items inside a batch run in order. A failing item does not stop
// the run: its error is recorded in its Outcome. Only context cancellation
// aborts early.
package batch

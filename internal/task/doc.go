// Package task runs short-lived units of work on a bounded in-process queue
// drained by a fixed pool of worker goroutines. The in-memory event bus uses
// it to deliver each published event to its subscribers off the caller's
// goroutine.
package task

// Package membus provides an in-process events.Dispatcher. Deliveries run on
// a task.WorkerPool so publishers never wait for subscribers.
package membus

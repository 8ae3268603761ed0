// Package worker holds the downstream processors that consume dispatched
// tasks: the username generator and the greeting processor.
package worker

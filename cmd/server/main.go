// Package main implements the courier command: an HTTP front door that
// accepts work, hands it to background workers over an event bus and
// correlates the results back to the original request.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

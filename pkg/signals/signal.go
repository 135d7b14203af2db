// Package signals sets up a SIGTERM/SIGINT-driven shutdown channel for main,
// in the conventional k8s-ecosystem shape (sigs.k8s.io/controller-runtime's
// manager/signals package does the same thing).
package signals

import (
	"os"
	"os/signal"
)

var onlyOneSignalHandler = make(chan struct{})

// SetupSignalHandler registers a handler for SIGTERM/SIGINT and returns a
// channel that is closed on the first such signal; a second signal exits
// the process immediately with status 1. Panics if called more than once.
func SetupSignalHandler() (stopCh <-chan struct{}) {
	close(onlyOneSignalHandler) // panics when called twice

	stop := make(chan struct{})
	c := make(chan os.Signal, 2)
	signal.Notify(c, shutdownSignals...)
	go func() {
		<-c
		close(stop)
		<-c
		os.Exit(1)
	}()

	return stop
}

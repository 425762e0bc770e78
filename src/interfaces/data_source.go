package interfaces

import (
	"context"
	"sync"
)

// -----------------------------------------------------------------------------
// IPoller is a periodic producer that merges what it fetches into the home store.
// -----------------------------------------------------------------------------

type IPoller interface {

	// Name returns the unique identifier of the poller
	Name() string

	// -----------------------------------------------------------------------------

	// Tick runs one fetch-and-merge round synchronously.
	Tick(ctx context.Context)

	// -----------------------------------------------------------------------------

	// Start begins the timer loop.
	// ctx: controls the lifecycle (cancellation stops the poller)
	// wg: marked done once the loop has fully exited
	Start(ctx context.Context, wg *sync.WaitGroup) error

	// -----------------------------------------------------------------------------

	// Stop cancels the timer loop started by Start.
	Stop() error

	// -----------------------------------------------------------------------------

	// IsRunning reports whether the timer loop is active
	IsRunning() bool
}

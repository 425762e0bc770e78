package publish

import (
	"context"
	"sync"

	"plug-explorer/src/helpers"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
)

// Dispatcher forwards store notifications to the sinks off the notifying goroutine.
// Only the newest pending snapshot is kept; a slow sink skips intermediate states.
type Dispatcher struct {
	Sinks  []interfaces.ISnapshotSink
	Errors *helpers.ErrorHandler
	Logger *logger.Logger

	mu      sync.Mutex
	pending *models.MHomeSnapshot
	signal  chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
}

// -----------------------------------------------------------------------------

func NewDispatcher(sinks []interfaces.ISnapshotSink, errs *helpers.ErrorHandler, log *logger.Logger) *Dispatcher {
	if errs == nil {
		errs = helpers.NewErrorHandler(log)
	}
	return &Dispatcher{
		Sinks:  sinks,
		Errors: errs,
		Logger: log,
		signal: make(chan struct{}, 1),
	}
}

// -----------------------------------------------------------------------------

// Offer is the store listener. It never blocks.
func (d *Dispatcher) Offer(snapshot models.MHomeSnapshot) {
	d.mu.Lock()
	d.pending = &snapshot
	d.mu.Unlock()

	select {
	case d.signal <- struct{}{}:
	default:
	}
}

// -----------------------------------------------------------------------------

// Start runs the forwarding loop until Stop or ctx is done.
func (d *Dispatcher) Start(parentCtx context.Context) {
	ctx, cancel := context.WithCancel(parentCtx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx)
	d.Logger.Info("Publishing snapshots to %d sink(s)", len(d.Sinks))
}

// Stop ends the loop, flushes the last pending snapshot and closes every sink.
func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil

	d.flush(context.Background())
	for _, s := range d.Sinks {
		if err := s.Close(); err != nil {
			d.Errors.Handle(err, "close "+s.Name())
		}
	}
}

// -----------------------------------------------------------------------------

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.signal:
			d.flush(ctx)
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context) {
	d.mu.Lock()
	snap := d.pending
	d.pending = nil
	d.mu.Unlock()

	if snap == nil {
		return
	}
	for _, s := range d.Sinks {
		if err := s.Publish(ctx, *snap); err != nil {
			d.Errors.Drop(err, "publish "+s.Name())
		}
	}
}

package datasource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"plug-explorer/src/logger"
)

// timerLoop is the timer shape shared by every poller: first tick after warmup,
// then one tick per interval until the context is cancelled or Stop is called.
type timerLoop struct {
	name     string
	warmup   time.Duration
	interval time.Duration
	Logger   *logger.Logger

	tick func(ctx context.Context)

	cancelFunc context.CancelFunc
	done       chan struct{}
	isRunning  atomic.Bool
	ticks      atomic.Int64
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

func (s *timerLoop) Name() string {
	return s.name
}

// -----------------------------------------------------------------------------

func (s *timerLoop) IsRunning() bool {
	return s.isRunning.Load()
}

// -----------------------------------------------------------------------------

// Ticks returns how many rounds have run since construction.
func (s *timerLoop) Ticks() int64 {
	return s.ticks.Load()
}

// -----------------------------------------------------------------------------

// Start begins the timer loop. wg, when given, is marked done once the loop exits.
func (s *timerLoop) Start(parentCtx context.Context, wg *sync.WaitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning.Load() {
		return fmt.Errorf("poller %s is already running", s.name)
	}

	// Derive a context so we can stop just this poller via Stop()
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancelFunc = cancel
	s.done = make(chan struct{})
	s.isRunning.Store(true)

	if wg != nil {
		wg.Add(1)
	}
	go s.runLoop(ctx, s.done, wg)
	s.Logger.Info("Started poller: %s (warmup %v, every %v)", s.name, s.warmup, s.interval)
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels the loop and waits for the round in progress to finish, so no merge
// can happen once Stop has returned.
func (s *timerLoop) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning.Load() {
		return fmt.Errorf("poller %s is not running", s.name)
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	<-s.done
	s.isRunning.Store(false)
	s.Logger.Info("Stopped poller: %s", s.name)
	return nil
}

// -----------------------------------------------------------------------------

// Tick runs one round synchronously.
func (s *timerLoop) Tick(ctx context.Context) {
	s.ticks.Add(1)
	s.tick(ctx)
}

// -----------------------------------------------------------------------------

func (s *timerLoop) runLoop(ctx context.Context, done chan struct{}, wg *sync.WaitGroup) {
	defer func() {
		s.isRunning.Store(false)
		close(done)
		if wg != nil {
			wg.Done()
		}
	}()

	warmup := time.NewTimer(s.warmup)
	defer warmup.Stop()

	select {
	case <-ctx.Done():
		return
	case <-warmup.C:
	}
	s.Tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
)

// Manager owns a set of pollers and their shared lifecycle
type Manager struct {
	Pollers    map[string]interfaces.IPoller
	Logger     *logger.Logger
	mu         sync.RWMutex
	ctx        context.Context    // Lifecycle context (derived)
	cancelFunc context.CancelFunc // To stop all pollers
	wg         sync.WaitGroup
}

// -----------------------------------------------------------------------------

func NewManager(pollers []interfaces.IPoller, log *logger.Logger) *Manager {
	m := &Manager{
		Pollers: make(map[string]interfaces.IPoller),
		Logger:  log,
	}

	for _, p := range pollers {
		m.Pollers[p.Name()] = p
	}

	return m
}

// -----------------------------------------------------------------------------

// AddPoller adds a poller and starts it if the manager is running
func (m *Manager) AddPoller(p interfaces.IPoller) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if _, exists := m.Pollers[name]; exists {
		return fmt.Errorf("poller %s already exists", name)
	}

	m.Pollers[name] = p
	m.Logger.Debug("Added poller: %s", name)

	if m.ctx != nil {
		if err := p.Start(m.ctx, &m.wg); err != nil {
			return fmt.Errorf("failed to start poller %s: %w", name, err)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// GetPoller retrieves a poller by name
func (m *Manager) GetPoller(name string) (interfaces.IPoller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.Pollers[name]
	if !exists {
		return nil, fmt.Errorf("poller %s not found", name)
	}
	return p, nil
}

// -----------------------------------------------------------------------------

// GetAllPollers returns every poller sorted by name
func (m *Manager) GetAllPollers() []interfaces.IPoller {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]interfaces.IPoller, 0, len(m.Pollers))
	for _, p := range m.Pollers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// -----------------------------------------------------------------------------

// Start starts all pollers
func (m *Manager) Start(parentCtx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx != nil {
		return fmt.Errorf("manager is already running")
	}

	// Derive a context so the manager can be stopped independently
	ctx, cancel := context.WithCancel(parentCtx)
	m.ctx = ctx
	m.cancelFunc = cancel

	for _, p := range m.Pollers {
		if err := p.Start(m.ctx, &m.wg); err != nil {
			m.Logger.Error("Failed to start poller %s: %v", p.Name(), err)
			m.stopLocked()
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels every poller and waits for all of them to exit. No poller touches
// the store after Stop returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.ctx == nil {
		return
	}

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.wg.Wait()

	m.cancelFunc = nil
	m.ctx = nil
	m.Logger.Debug("Manager stopped")
}

// -----------------------------------------------------------------------------

// IsRunning reports whether Start has been called without a matching Stop
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctx != nil
}

// -----------------------------------------------------------------------------

// TickAll runs one round of every poller concurrently and waits for them.
func (m *Manager) TickAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range m.GetAllPollers() {
		wg.Add(1)
		go func(p interfaces.IPoller) {
			defer wg.Done()
			p.Tick(ctx)
		}(p)
	}
	wg.Wait()
}

// -----------------------------------------------------------------------------

// Status reports whether each poller's loop is active
func (m *Manager) Status() map[string]bool {
	out := make(map[string]bool)
	for _, p := range m.GetAllPollers() {
		out[p.Name()] = p.IsRunning()
	}
	return out
}

package home

import (
	"context"
	"fmt"
	"sync"

	datasource "plug-explorer/src/data_source"
	"plug-explorer/src/helpers"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/store"
)

// AlertSink receives toasts raised by the page.
type AlertSink func(models.MAlert)

// Page is one mounted home page: its store and the two pollers feeding it.
type Page struct {
	Store   *store.HomeStore
	Manager *datasource.Manager
	Errors  *helpers.ErrorHandler
	Logger  *logger.Logger

	alert   AlertSink
	mu      sync.Mutex
	mounted bool
}

// -----------------------------------------------------------------------------

// NewPage builds the store with its defaults and both pollers. Nothing runs until
// Mount. alert may be nil, in which case alerts are only logged.
func NewPage(opts datasource.Options, netMgr interfaces.INetworkManager, errs *helpers.ErrorHandler, log *logger.Logger, alert AlertSink) *Page {
	if errs == nil {
		errs = helpers.NewErrorHandler(log)
	}

	homeStore := store.NewHomeStore()
	pollers := []interfaces.IPoller{
		datasource.NewBlockListPoller(opts, netMgr, homeStore, errs, log.Named("BlockListPoller")),
		datasource.NewChainStatsPoller(opts, netMgr, homeStore, errs, log.Named("ChainStatsPoller")),
	}

	return &Page{
		Store:   homeStore,
		Manager: datasource.NewManager(pollers, log.Named("PollerManager")),
		Errors:  errs,
		Logger:  log,
		alert:   alert,
	}
}

// -----------------------------------------------------------------------------

// Mount starts both pollers.
func (p *Page) Mount(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted {
		return fmt.Errorf("page is already mounted")
	}
	if err := p.Manager.Start(ctx); err != nil {
		return err
	}
	p.mounted = true
	return nil
}

// -----------------------------------------------------------------------------

// Unmount stops both pollers and waits for them. The store receives no update
// after Unmount returns.
func (p *Page) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted {
		return
	}
	p.Manager.Stop()
	p.mounted = false
}

// -----------------------------------------------------------------------------

func (p *Page) IsMounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// -----------------------------------------------------------------------------

func (p *Page) Snapshot() models.MHomeSnapshot {
	return p.Store.Get()
}

func (p *Page) ChainInfo() models.MChainView {
	return p.Store.Get().ChainView()
}

func (p *Page) NewsInfo() models.MNewsView {
	return p.Store.Get().NewsView()
}

// Subscribe registers fn for every snapshot change and returns its disposer.
func (p *Page) Subscribe(fn func(models.MHomeSnapshot)) func() {
	return p.Store.Subscribe(fn)
}

// -----------------------------------------------------------------------------

// Search handles the search box. Blank input raises the "no content" alert once and
// returns it; anything else resolves to a link. No request is issued either way.
func (p *Page) Search(input string) (*models.MSearchResult, *models.MAlert) {
	result, ok := ResolveSearch(input)
	if !ok {
		alert := EmptySearchAlert()
		if p.alert != nil {
			p.alert(alert)
		} else {
			p.Logger.Debug("Alert: %s", alert.Message)
		}
		return nil, &alert
	}
	return &result, nil
}

// -----------------------------------------------------------------------------

// Status reports poller activity and dropped-failure counts.
func (p *Page) Status() map[string]interface{} {
	pollers := make(map[string]interface{})
	for name, running := range p.Manager.Status() {
		pollers[name] = running
	}
	failures := make(map[string]interface{})
	for op, n := range p.Errors.Counts() {
		failures[op] = n
	}
	return map[string]interface{}{
		"mounted":  p.IsMounted(),
		"pollers":  pollers,
		"failures": failures,
	}
}

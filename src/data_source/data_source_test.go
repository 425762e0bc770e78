package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"plug-explorer/src/helpers"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/network"
	"plug-explorer/src/store"
)

// fakeNetwork answers from a per-path function.
type fakeNetwork struct {
	mu       sync.Mutex
	calls    map[string]int
	handlers map[string]func(ctx context.Context) models.MResult
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		calls:    make(map[string]int),
		handlers: make(map[string]func(ctx context.Context) models.MResult),
	}
}

func (f *fakeNetwork) on(path string, h func(ctx context.Context) models.MResult) {
	f.mu.Lock()
	f.handlers[path] = h
	f.mu.Unlock()
}

func (f *fakeNetwork) Get(ctx context.Context, path string, params map[string]string) models.MResult {
	f.mu.Lock()
	f.calls[path]++
	h := f.handlers[path]
	f.mu.Unlock()
	if h == nil {
		return models.HTTPError(http.StatusNotFound)
	}
	return h(ctx)
}

func (f *fakeNetwork) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func okJSON(v interface{}) func(context.Context) models.MResult {
	data, _ := json.Marshal(v)
	return func(context.Context) models.MResult { return models.Ok(http.StatusOK, data) }
}

func quietLogger() *logger.Logger {
	l := logger.NewLogger("ERROR", "test")
	l.SetOutput(io.Discard)
	return l
}

func blocks(n int) []map[string]interface{} {
	out := make([]map[string]interface{}, n)
	for i := range out {
		out[i] = map[string]interface{}{
			"hash":     fmt.Sprintf("hash%d", i),
			"block_id": 1000 - i,
			"time":     1600000000 + i,
			"address":  fmt.Sprintf("addr%d", i),
			"tx_num":   i,
			"tx_fee":   "0.01",
		}
	}
	return out
}

var fastOptions = Options{Warmup: time.Millisecond, Interval: 5 * time.Millisecond, BlockListSize: 10}

func TestBuildBlockTableTruncatesInOrderWithDistinctKeys(t *testing.T) {
	raw, _ := json.Marshal(blocks(15))
	var parsed []models.MBlock
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rows := BuildBlockTable(parsed, 10)
	if len(rows) != 10 {
		t.Fatalf("rows = %d, want 10", len(rows))
	}

	seen := make(map[string]bool)
	for i, row := range rows {
		if got, want := row.Value[0].Value, fmt.Sprint(1000-i); got != want {
			t.Errorf("row %d block id = %s, want %s", i, got, want)
		}
		if row.Value[0].Link != fmt.Sprintf("./block/hash%d", i) {
			t.Errorf("row %d block link = %s", i, row.Value[0].Link)
		}
		if row.Value[2].Link != fmt.Sprintf("./account/addr%d", i) {
			t.Errorf("row %d account link = %s", i, row.Value[2].Link)
		}
		if len(row.Value) != 6 {
			t.Fatalf("row %d has %d cells, want 6", i, len(row.Value))
		}
		for _, k := range TableKeys([]models.MTableRow{row}) {
			if seen[k] {
				t.Fatalf("duplicate key %s", k)
			}
			seen[k] = true
		}
	}
}

func TestBlockListMergesTableAndHeight(t *testing.T) {
	net := newFakeNetwork()
	net.on(BlockListPath, okJSON(blocks(12)))
	s := store.NewHomeStore()
	s.Merge(models.MHomePatch{Price: models.String("9.9")})

	p := NewBlockListPoller(fastOptions, net, s, nil, quietLogger())
	p.Tick(context.Background())

	snap := s.Get()
	if len(snap.BlockListTable) != 10 {
		t.Errorf("table rows = %d, want 10", len(snap.BlockListTable))
	}
	if snap.BlockHeight != "1000" {
		t.Errorf("block height = %q, want 1000", snap.BlockHeight)
	}
	if snap.Price != "9.9" {
		t.Errorf("unrelated field changed: price = %q", snap.Price)
	}
}

func TestBlockListNon200ChangesNothing(t *testing.T) {
	net := newFakeNetwork()
	net.on(BlockListPath, func(context.Context) models.MResult { return models.HTTPError(http.StatusBadGateway) })
	s := store.NewHomeStore()
	notified := 0
	s.Subscribe(func(models.MHomeSnapshot) { notified++ })

	errs := helpers.NewErrorHandler(quietLogger())
	p := NewBlockListPoller(fastOptions, net, s, errs, quietLogger())
	p.Tick(context.Background())

	if notified != 0 {
		t.Errorf("store notified %d times on a failed poll", notified)
	}
	if !reflect.DeepEqual(s.Get(), models.NewHomeSnapshot()) {
		t.Errorf("store changed: %+v", s.Get())
	}
	if errs.Counts()["block_list"] != 1 {
		t.Errorf("failure not counted: %v", errs.Counts())
	}
}

func TestBlockListEmptyArrayKeepsHeight(t *testing.T) {
	net := newFakeNetwork()
	net.on(BlockListPath, okJSON([]interface{}{}))
	s := store.NewHomeStore()
	s.Merge(models.MHomePatch{BlockHeight: models.String("77")})

	NewBlockListPoller(fastOptions, net, s, nil, quietLogger()).Tick(context.Background())

	snap := s.Get()
	if snap.BlockHeight != "77" {
		t.Errorf("block height = %q, want 77", snap.BlockHeight)
	}
	if snap.BlockListTable == nil || len(snap.BlockListTable) != 0 {
		t.Errorf("table should be empty, got %v", snap.BlockListTable)
	}
}

func TestChainStatsMergesSurvivors(t *testing.T) {
	net := newFakeNetwork()
	net.on(InfoPath, okJSON(map[string]interface{}{
		"block_num": 321, "avg_tx": 4, "max_avg_tx": 9, "tx_nums": 12, "ratio": 0.25, "total_tx_num": 5000,
	}))
	net.on(UnconfirmedTxsPath, okJSON(7))
	net.on(CoinInfoPath, func(context.Context) models.MResult {
		return network.UnwrapEnvelope(http.StatusOK, []byte(`{"success":false,"data":null}`))
	})

	s := store.NewHomeStore()
	s.Merge(models.MHomePatch{Price: models.String("old")})
	NewChainStatsPoller(fastOptions, net, s, nil, quietLogger()).Tick(context.Background())

	snap := s.Get()
	if snap.PendingBlockVolume != "7" {
		t.Errorf("pending = %q", snap.PendingBlockVolume)
	}
	if snap.BlockHeight != "321" || snap.TransactionVolume != "5000" || snap.TransactionRate != 0.25 {
		t.Errorf("info fields not merged: %+v", snap)
	}
	if snap.NowVolume != "4" || snap.HistoryMaxVolume != "9" || snap.NewBlockTransaction != "12" {
		t.Errorf("info volumes not merged: %+v", snap)
	}
	if snap.Price != "old" {
		t.Errorf("failed coin_info must not touch price, got %q", snap.Price)
	}
}

func TestChainStatsCoinFields(t *testing.T) {
	net := newFakeNetwork()
	net.on(CoinInfoPath, okJSON(map[string]interface{}{
		"price": "0.42", "price_drift_ratio": "-0.05", "total_price": 1000000,
		"supply": "21000000", "staking": 5000, "staking_ratio": 0.3,
	}))
	s := store.NewHomeStore()
	NewChainStatsPoller(fastOptions, net, s, nil, quietLogger()).Tick(context.Background())

	snap := s.Get()
	if snap.Price != "0.42" || snap.PriceRate != -0.05 || snap.MarkValue != "1000000" {
		t.Errorf("coin price fields: %+v", snap)
	}
	if snap.AllTokenVolume != "21000000" || snap.AllPledge != "5000" || snap.PledgeRate != 0.3 {
		t.Errorf("coin supply fields: %+v", snap)
	}
}

func TestChainStatsNonFiniteRatesBecomeZero(t *testing.T) {
	net := newFakeNetwork()
	net.on(InfoPath, okJSON(map[string]interface{}{"block_num": 1, "ratio": "-Inf"}))
	net.on(CoinInfoPath, okJSON(map[string]interface{}{
		"price": "0.42", "price_drift_ratio": "NaN", "staking_ratio": "Infinity",
	}))
	s := store.NewHomeStore()
	NewChainStatsPoller(fastOptions, net, s, nil, quietLogger()).Tick(context.Background())

	snap := s.Get()
	if snap.PriceRate != 0 || snap.PledgeRate != 0 || snap.TransactionRate != 0 {
		t.Errorf("non-finite rates should be 0: price=%v pledge=%v tx=%v", snap.PriceRate, snap.PledgeRate, snap.TransactionRate)
	}
	if _, err := json.Marshal(snap); err != nil {
		t.Fatalf("snapshot no longer encodes: %v", err)
	}
}

func TestChainStatsWaitsForAllThree(t *testing.T) {
	release := make(chan struct{})
	net := newFakeNetwork()
	net.on(UnconfirmedTxsPath, okJSON(1))
	net.on(CoinInfoPath, okJSON(map[string]interface{}{"price": 1}))
	net.on(InfoPath, func(ctx context.Context) models.MResult {
		<-release
		return okJSON(map[string]interface{}{"block_num": 2})(ctx)
	})

	s := store.NewHomeStore()
	var notified atomic.Int32
	s.Subscribe(func(models.MHomeSnapshot) { notified.Add(1) })

	done := make(chan struct{})
	go func() {
		NewChainStatsPoller(fastOptions, net, s, nil, quietLogger()).Tick(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for net.count(InfoPath) == 0 || net.count(CoinInfoPath) == 0 || net.count(UnconfirmedTxsPath) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("requests were not issued concurrently")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	if n := notified.Load(); n != 0 {
		t.Fatalf("merged %d times before every request settled", n)
	}

	close(release)
	<-done
	if n := notified.Load(); n != 3 {
		t.Errorf("notifications = %d, want 3", n)
	}
}

func TestManagerStopPreventsFurtherUpdates(t *testing.T) {
	net := newFakeNetwork()
	net.on(BlockListPath, okJSON(blocks(3)))
	net.on(InfoPath, okJSON(map[string]interface{}{"block_num": 1}))
	net.on(UnconfirmedTxsPath, okJSON(1))
	net.on(CoinInfoPath, okJSON(map[string]interface{}{"price": 1}))

	s := store.NewHomeStore()
	var updates atomic.Int32
	s.Subscribe(func(models.MHomeSnapshot) { updates.Add(1) })

	m := NewManager([]interfaces.IPoller{
		NewBlockListPoller(fastOptions, net, s, nil, quietLogger()),
		NewChainStatsPoller(fastOptions, net, s, nil, quietLogger()),
	}, quietLogger())

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}

	deadline := time.Now().Add(time.Second)
	for updates.Load() < 4 {
		if time.Now().After(deadline) {
			t.Fatal("pollers never merged")
		}
		time.Sleep(time.Millisecond)
	}

	m.Stop()
	after := updates.Load()
	time.Sleep(50 * time.Millisecond)
	if got := updates.Load(); got != after {
		t.Errorf("store updated %d times after Stop", got-after)
	}
	for name, running := range m.Status() {
		if running {
			t.Errorf("poller %s still running", name)
		}
	}
}

func TestInFlightCompletionAfterStopIsDiscarded(t *testing.T) {
	started := make(chan struct{}, 1)
	net := newFakeNetwork()
	net.on(BlockListPath, func(ctx context.Context) models.MResult {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		// The response still "arrives" after cancellation.
		return okJSON(blocks(2))(ctx)
	})

	s := store.NewHomeStore()
	p := NewBlockListPoller(fastOptions, net, s, nil, quietLogger())
	if err := p.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if len(s.Get().BlockListTable) != 0 {
		t.Error("late completion was merged after Stop")
	}
	if err := p.Stop(); err == nil {
		t.Error("stopping a stopped poller should fail")
	}
}

func TestPollersAgainstHTTPBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blockchain":
			json.NewEncoder(w).Encode(map[string]interface{}{"status": 200, "data": blocks(11)})
		case "/info":
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]interface{}{"block_num": 1001}})
		case "/num_unconfirmed_txs":
			w.WriteHeader(http.StatusInternalServerError)
		case "/coin_info":
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]interface{}{"price": "3.5"}})
		}
	}))
	defer backend.Close()

	nm, err := network.NewAsyncNetworkManager(&models.MConfig{Network: models.MNetworkConfig{BaseURL: backend.URL}}, quietLogger())
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	s := store.NewHomeStore()
	m := NewManager([]interfaces.IPoller{
		NewBlockListPoller(fastOptions, nm, s, nil, quietLogger()),
		NewChainStatsPoller(fastOptions, nm, s, nil, quietLogger()),
	}, quietLogger())
	m.TickAll(context.Background())

	snap := s.Get()
	if len(snap.BlockListTable) != 10 {
		t.Errorf("rows = %d", len(snap.BlockListTable))
	}
	if snap.Price != "3.5" {
		t.Errorf("price = %q", snap.Price)
	}
	if snap.PendingBlockVolume != "" {
		t.Errorf("failed endpoint should leave pending empty, got %q", snap.PendingBlockVolume)
	}
	if snap.BlockHeight != "1000" && snap.BlockHeight != "1001" {
		t.Errorf("block height = %q", snap.BlockHeight)
	}
}

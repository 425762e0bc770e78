package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	datasource "plug-explorer/src/data_source"
	"plug-explorer/src/home"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type stubNetwork struct{}

func (stubNetwork) Get(ctx context.Context, path string, params map[string]string) models.MResult {
	switch path {
	case datasource.BlockListPath:
		return models.Ok(http.StatusOK, json.RawMessage(`[{"hash":"h9","block_id":9,"time":1600000000,"address":"a9","tx_num":2,"tx_fee":"0.1"}]`))
	case datasource.CoinInfoPath:
		return models.Ok(http.StatusOK, json.RawMessage(`{"price":"2.5","price_drift_ratio":"0.0123","supply":"1234567"}`))
	}
	return models.HTTPError(http.StatusServiceUnavailable)
}

func quietLogger() *logger.Logger {
	l := logger.NewLogger("ERROR", "test")
	l.SetOutput(io.Discard)
	return l
}

var fastOptions = datasource.Options{Warmup: time.Millisecond, Interval: 5 * time.Millisecond}

func newTestServer(t *testing.T) (*FastAPIServer, *home.Page) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := quietLogger()
	shared := home.NewPage(fastOptions, stubNetwork{}, nil, log, nil)
	factory := func(alert home.AlertSink) *home.Page {
		return home.NewPage(fastOptions, stubNetwork{}, nil, log, alert)
	}
	cfg := &models.MConfig{Host: "127.0.0.1", DefaultLanguage: "zh-CN", LogLevel: "ERROR"}
	s := NewFastAPIServer(cfg, log, shared, factory, "")
	t.Cleanup(func() { s.Stop(context.Background()) })
	return s, shared
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHomeRoutesServeSharedPage(t *testing.T) {
	s, shared := newTestServer(t)
	shared.Store.Merge(models.MHomePatch{BlockHeight: models.String("77"), Price: models.String("1.5")})

	w := get(t, s.Handler(), "/api/home")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var snap models.MHomeSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.BlockHeight != "77" || snap.BlockListTable == nil {
		t.Errorf("snapshot = %+v", snap)
	}

	var chain models.MChainView
	json.Unmarshal(get(t, s.Handler(), "/api/home/chain").Body.Bytes(), &chain)
	if chain.BlockHeight != "77" {
		t.Errorf("chain view = %+v", chain)
	}
	var news models.MNewsView
	json.Unmarshal(get(t, s.Handler(), "/api/home/news").Body.Bytes(), &news)
	if news.Price != "1.5" {
		t.Errorf("news view = %+v", news)
	}
}

func TestSearchRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s.Handler(), "/api/search?q=%20%20")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "没有内容") {
		t.Errorf("blank search = %d %s", w.Code, w.Body.String())
	}

	w = get(t, s.Handler(), "/api/search?q=123")
	var res models.MSearchResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if w.Code != http.StatusOK || res.Link != "./block/123" {
		t.Errorf("search = %d %+v", w.Code, res)
	}
}

func TestIndexRendersTranslatedPage(t *testing.T) {
	s, shared := newTestServer(t)
	shared.Store.Merge(models.MHomePatch{MarkValue: models.String("1234567.5"), PledgeRate: models.Float(0.5)})

	w := get(t, s.Handler(), "/?lang=en-US")
	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, want := range []string{`lang="en-US"`, "1,234,567.5", "50.00%"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestTranslationRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s.Handler(), "/api/i18n/blockHeight?lang=xx-XX")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown locale status = %d", w.Code)
	}

	var all struct {
		Values map[string]string `json:"values"`
	}
	json.Unmarshal(get(t, s.Handler(), "/api/i18n/blockHeight").Body.Bytes(), &all)
	if len(all.Values) != 2 || all.Values["zh-CN"] == "" || all.Values["en-US"] == "" {
		t.Errorf("values = %v", all.Values)
	}
}

func TestLanguageSwitch(t *testing.T) {
	s, _ := newTestServer(t)

	var persisted []string
	s.OnLanguage(func(ctx context.Context, lang string) error {
		if lang == "en-US" {
			persisted = append(persisted, lang)
			return nil
		}
		return errors.New("refused")
	})

	post := func(body string) int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/language", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		s.Handler().ServeHTTP(w, r)
		return w.Code
	}

	if s.Language() != "zh-CN" {
		t.Fatalf("initial language = %q", s.Language())
	}
	if code := post(`{"language":"en-US"}`); code != http.StatusOK {
		t.Fatalf("switch status = %d", code)
	}
	if s.Language() != "en-US" || len(persisted) != 1 {
		t.Errorf("language = %q, persisted = %v", s.Language(), persisted)
	}
	if code := post(`{"language":"fr-FR"}`); code != http.StatusBadRequest {
		t.Errorf("unsupported language status = %d", code)
	}
	if code := post(`{}`); code != http.StatusBadRequest {
		t.Errorf("missing language status = %d", code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	var body map[string]interface{}
	json.Unmarshal(get(t, s.Handler(), "/api/health").Body.Bytes(), &body)
	if body["status"] != "ok" || body["connections"] != float64(0) {
		t.Errorf("health = %v", body)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) models.MPageMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.MPageMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketSessionMountsOwnPage(t *testing.T) {
	s, shared := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Type != "INITIAL" || first.Snapshot == nil || first.Language != "zh-CN" {
		t.Fatalf("first message = %+v", first)
	}

	// The session page polls on its own; the shared page is never mounted here.
	var updated bool
	for i := 0; i < 20 && !updated; i++ {
		msg := readMessage(t, conn)
		updated = msg.Type == "UPDATE" && msg.Snapshot.Price == "2.5"
	}
	if !updated {
		t.Fatal("session never received a polled snapshot")
	}
	if shared.Snapshot().Price != "" {
		t.Error("session polling leaked into the shared page")
	}

	conn.WriteJSON(models.MClientCommand{Command: "search", Query: " "})
	conn.WriteJSON(models.MClientCommand{Command: "search", Query: "abc"})

	var sawAlert, sawSearch bool
	for i := 0; i < 50 && !(sawAlert && sawSearch); i++ {
		msg := readMessage(t, conn)
		switch msg.Type {
		case "ALERT":
			sawAlert = msg.Alert.Message == "没有内容" && msg.Alert.Time == 5000
		case "SEARCH":
			sawSearch = msg.Search.Link == "./account/abc"
		}
	}
	if !sawAlert || !sawSearch {
		t.Errorf("alert %v, search %v", sawAlert, sawSearch)
	}
}

func TestStopUnmountsSessions(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		readMessage(t, conn)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}

	if n := s.Connections(); n != 3 {
		t.Errorf("connections = %d", n)
	}

	done := make(chan struct{})
	go func() {
		s.Stop(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
	wg.Wait()
}

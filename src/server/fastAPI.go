package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"plug-explorer/src/home"
	"plug-explorer/src/i18n"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageFactory builds an unmounted page whose alerts go to alert.
type PageFactory func(alert home.AlertSink) *home.Page

// LanguageHook persists a language switch.
type LanguageHook func(ctx context.Context, lang string) error

// -----------------------------------------------------------------------------
// FastAPIServer
// -----------------------------------------------------------------------------

type FastAPIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine
	http   *http.Server

	// Shared long-lived page behind the HTML and JSON routes
	page        *home.Page
	newPage     PageFactory
	onLanguage  LanguageHook
	language    string
	lastUpdate  int64
	stateMutex  sync.RWMutex
	disposePage func()

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MPageMessage
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	sessions   sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewFastAPIServer(cfg *models.MConfig, log *logger.Logger, page *home.Page, newPage PageFactory, language string) *FastAPIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}
	if !i18n.Supported(language) {
		language = cfg.DefaultLanguage
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &FastAPIServer{
		Config:   cfg,
		Logger:   log,
		engine:   gin.New(),
		page:     page,
		newPage:  newPage,
		language: language,
		clients:  make(map[*Client]struct{}),
		// Buffered so a language switch never waits on the hub
		broadcast:  make(chan *models.MPageMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.engine.Use(gin.Recovery())

	tmpl := template.Must(template.New("").Funcs(s.templateFuncs()).ParseFS(templateFS, "templates/*.html"))
	s.engine.SetHTMLTemplate(tmpl)

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.disposePage = page.Subscribe(func(models.MHomeSnapshot) {
		s.stateMutex.Lock()
		s.lastUpdate = time.Now().Unix()
		s.stateMutex.Unlock()
	})

	s.setupRoutes()
	go s.handleWebsockets()
	return s
}

// OnLanguage installs the hook called before a language switch is applied.
func (s *FastAPIServer) OnLanguage(hook LanguageHook) {
	s.onLanguage = hook
}

// Handler exposes the router, mostly for tests.
func (s *FastAPIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setupRoutes() {
	s.engine.GET("/", s.getIndex)

	api := s.engine.Group("/api")
	api.GET("/home", s.getHome)
	api.GET("/home/chain", s.getChain)
	api.GET("/home/news", s.getNews)
	api.GET("/search", s.getSearch)
	api.GET("/i18n/:key", s.getTranslation)
	api.POST("/language", s.postLanguage)
	api.GET("/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start listens and serves in the background, returning the bound address.
func (s *FastAPIServer) Start() (string, error) {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.http = &http.Server{Handler: s.engine}
	s.Logger.Info("Starting server on %s", ln.Addr())

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("Server failed: %v", err)
		}
	}()
	return ln.Addr().String(), nil
}

// -----------------------------------------------------------------------------

// Stop shuts the listener down, then unmounts every session page.
func (s *FastAPIServer) Stop(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.cancel()
	s.sessions.Wait()
	s.disposePage()
	return err
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) Language() string {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.language
}

// -----------------------------------------------------------------------------

// SetLanguage persists lang through the hook, then tells every session.
func (s *FastAPIServer) SetLanguage(ctx context.Context, lang string) error {
	if !i18n.Supported(lang) {
		return fmt.Errorf("unsupported language: %q", lang)
	}
	if s.onLanguage != nil {
		if err := s.onLanguage(ctx, lang); err != nil {
			return err
		}
	}

	s.stateMutex.Lock()
	s.language = lang
	s.stateMutex.Unlock()

	s.Broadcast(&models.MPageMessage{Type: "LANGUAGE", Language: lang, Timestamp: time.Now().Unix()})
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getIndex(c *gin.Context) {
	lang := c.Query("lang")
	if !i18n.Supported(lang) {
		lang = s.Language()
	}
	c.HTML(http.StatusOK, "home.html", pageView{
		Lang:     lang,
		Snapshot: s.page.Snapshot(),
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHome(c *gin.Context) {
	c.JSON(http.StatusOK, s.page.Snapshot())
}

func (s *FastAPIServer) getChain(c *gin.Context) {
	c.JSON(http.StatusOK, s.page.ChainInfo())
}

func (s *FastAPIServer) getNews(c *gin.Context) {
	c.JSON(http.StatusOK, s.page.NewsInfo())
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getSearch(c *gin.Context) {
	result, alert := s.page.Search(c.Query("q"))
	if alert != nil {
		c.JSON(http.StatusBadRequest, gin.H{"alert": alert})
		return
	}
	c.JSON(http.StatusOK, result)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getTranslation(c *gin.Context) {
	key := c.Param("key")
	lang := c.Query("lang")
	if lang == "" {
		c.JSON(http.StatusOK, gin.H{"key": key, "values": i18n.All(key)})
		return
	}
	if !i18n.Supported(lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "language": lang, "value": i18n.Lookup(lang, key)})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) postLanguage(c *gin.Context) {
	var body struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.SetLanguage(c.Request.Context(), body.Language); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": body.Language})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	timestamp := s.lastUpdate
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   s.Connections(),
		"latest_update": timestamp,
		"page":          s.page.Status(),
	})
}

// Hub loop and session handling live in hub.go

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

// App holds the process-wide state shared by all handlers.
type App struct {
	Config  *Config
	Fetcher CategoryFetcher
	Hub     *EventHub

	GameSessions map[string]*sessionEntry
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	StartTime time.Time
}

// NewApp wires an App around cfg and a category fetcher.
func NewApp(cfg *Config, fetcher CategoryFetcher) *App {
	return &App{
		Config:       cfg,
		Fetcher:      fetcher,
		Hub:          NewEventHub(),
		GameSessions: make(map[string]*sessionEntry),
		LimiterMap:   make(map[string]*rate.Limiter),
		StartTime:    time.Now(),
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		logFatal("triviashow: %v", err)
	}
}

// run serves the game until ctx is cancelled.
func run(ctx context.Context, cfg *Config) error {
	initLogger(cfg.Production, cfg.Verbose)
	defer func() { _ = logger.Sync() }()

	logInfo("Starting triviashow v%s in %s mode", releaseVersion, cfg.env())
	logInfo("Playing categories %v from %s", cfg.CategoryIDs, cfg.APIURL)

	app := NewApp(cfg, NewTriviaClient(cfg.APIURL, cfg.APITimeout))
	router := app.newRouter()

	go app.reapSessions(ctx, cfg.SessionTimeout)

	return app.startServer(ctx, router)
}

func (app *App) newRouter() *gin.Engine {
	if app.Config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts", RouteEvents, RouteQR})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	production := app.Config.Production
	router.Use(func(c *gin.Context) {
		app.applyCacheHeaders(c, production)
	})

	if production && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	limited := app.rateLimitMiddleware()

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteBoard, app.boardHandler)
	router.POST(RouteBoardSelect, limited, app.selectClueHandler)
	router.POST(RouteAnswer, limited, app.answerHandler)
	router.POST(RouteReload, limited, app.reloadHandler)
	router.POST(RouteRestart, limited, app.restartHandler)
	router.POST(RouteNewGame, limited, app.newGameHandler)
	router.GET(RouteWinner, app.winnerHandler)
	router.GET(RouteEvents, app.eventsHandler)
	router.GET(RouteQR, app.qrHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	api := router.Group("/api/v1")
	api.Use(app.corsMiddleware())
	api.GET("/board", app.apiBoardHandler)

	return router
}

func (app *App) startServer(ctx context.Context, router *gin.Engine) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(app.Config.Bind, strconv.Itoa(app.Config.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logInfo("Server starting on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logInfo("Shutdown signal received, shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logWarn("HTTP server Shutdown: %v", err)
	}
	app.closeSessions()
	logInfo("Server shutdown complete")
	return nil
}

func (app *App) applyCacheHeaders(c *gin.Context, production bool) {
	if production && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.Config.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

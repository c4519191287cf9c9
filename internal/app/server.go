package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhavjitChauhan/liveboard/api/ws"
	"github.com/bhavjitChauhan/liveboard/config"
	"github.com/bhavjitChauhan/liveboard/internal/bus"
	natsbus "github.com/bhavjitChauhan/liveboard/internal/nats"
	"github.com/bhavjitChauhan/liveboard/internal/port"
	redisreg "github.com/bhavjitChauhan/liveboard/internal/redis"
	"github.com/bhavjitChauhan/liveboard/internal/registry"
	"github.com/bhavjitChauhan/liveboard/internal/websocket"
	"github.com/bhavjitChauhan/liveboard/pkg/logger"
	"github.com/bhavjitChauhan/liveboard/service"
)

// App represents the main application structure holding all dependencies.
type App struct {
	cfg        config.Config
	logger     logger.Logger
	bus        port.Bus
	regCloser  io.Closer
	hub        *websocket.Hub
	httpServer *http.Server
	rootCtx    context.Context
	cancel     context.CancelFunc
}

// NewApp initializes and connects all application dependencies. With no
// NATS or Redis configured the relay runs standalone on the in-process
// bus and in-memory registry.
func NewApp(cfg config.Config) (*App, error) {
	baseLogger := logger.NewLogger(cfg.LogLevel, cfg.LogFile)
	rootCtx := logger.NewContext(context.Background(), baseLogger)
	rootCtx, rootCancel := context.WithCancel(rootCtx)

	log := logger.FromContext(rootCtx).WithModule("app")
	log.Infof("Initializing application components...")

	var b port.Bus
	if cfg.NATSURL != "" {
		nb, err := natsbus.NewBus(cfg.NATSURL)
		if err != nil {
			rootCancel()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		b = nb
		log.Infof("Using NATS fan-out at %s", cfg.NATSURL)
	} else {
		b = bus.NewMemory()
	}

	var reg port.Registry
	var regCloser io.Closer
	if cfg.RedisURL != "" {
		rr, err := redisreg.NewRegistry(rootCtx, cfg.RedisURL)
		if err != nil {
			rootCancel()
			b.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		reg = rr
		regCloser = rr
		log.Infof("Using Redis registry at %s", cfg.RedisURL)
	} else {
		reg = registry.NewMemory()
	}

	board := service.NewBoardService(reg, b, cfg, logger.FromContext(rootCtx).WithModule("board"))

	hub, err := websocket.NewHub(board, b, logger.FromContext(rootCtx).WithModule("hub"))
	if err != nil {
		rootCancel()
		b.Close()
		if regCloser != nil {
			regCloser.Close()
		}
		return nil, err
	}

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: ws.SetupWebSocketRoutes(ws.WSConfig{
			Hub:     hub,
			RootCtx: rootCtx,
		}),
	}

	app := &App{
		cfg:        cfg,
		logger:     log,
		bus:        b,
		regCloser:  regCloser,
		hub:        hub,
		httpServer: httpServer,
		rootCtx:    rootCtx,
		cancel:     rootCancel,
	}

	log.Infof("Application initialized successfully")
	return app, nil
}

// Start runs the application and handles graceful shutdown on signal.
func (a *App) Start() error {
	log := a.logger.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
	})

	log.Infof("Starting application server")

	go a.hub.Run()

	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Fatalf("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.WithFields(map[string]interface{}{
		"signal": sig.String(),
	}).Warnf("Received shutdown signal")

	return a.Stop()
}

// Stop gracefully shuts down the server and closes all connections.
func (a *App) Stop() error {
	log := a.logger.WithFields(map[string]interface{}{
		"shutdown_timeout": "5s",
	})

	log.Infof("Initiating graceful shutdown")

	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Errorf("HTTP server shutdown error")
	}

	log.Infof("Closing hub")
	a.hub.Close()

	log.Infof("Closing bus")
	a.bus.Close()

	if a.regCloser != nil {
		log.Infof("Closing registry")
		a.regCloser.Close()
	}

	log.Infof("Shutdown completed successfully")
	return nil
}

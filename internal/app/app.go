// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	"github.com/CreativeCreatives/creative-creatives/internal/config"
	"github.com/CreativeCreatives/creative-creatives/internal/di"
	"github.com/CreativeCreatives/creative-creatives/internal/services"
	"github.com/CreativeCreatives/creative-creatives/internal/storage"
	"github.com/CreativeCreatives/creative-creatives/internal/utils"
)

// httpServer abstracts *http.Server so tests can substitute a mock.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// App is the process-wide application instance.
type App struct {
	config   *config.AppConfig
	router   http.Handler
	server   httpServer
	stopChan chan os.Signal
}

var (
	instance    *App
	instanceMux sync.Mutex
)

// GetApp returns the singleton application instance.
func GetApp() *App {
	instanceMux.Lock()
	defer instanceMux.Unlock()

	if instance == nil {
		instance = &App{
			stopChan: make(chan os.Signal, 1),
		}
	}
	return instance
}

// GetConfig returns the app's loaded configuration.
func (a *App) GetConfig() *config.AppConfig {
	return a.config
}

// SetConfig attaches an already-loaded configuration, for callers that run
// the startup sequence themselves.
func (a *App) SetConfig(cfg *config.AppConfig) {
	a.config = cfg
}

// IsDebugMode reports whether the app runs with debug logging and gin debug
// mode enabled.
func (a *App) IsDebugMode() bool {
	return a.config != nil && a.config.DebugMode
}

// initLogger creates the log directory and routes the global logger to a
// dated file inside it.
func initLogger(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("creative-creatives-%s.log", time.Now().Format("2006-01-02")))
	return utils.InitLogger(logFile)
}

// InitServices constructs every service in dependency order and registers
// the instances in the DI container. Called once at startup, before the
// router is built.
func InitServices() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}

	container := di.GetContainer()
	logger := utils.GetLogger()

	// Storage first, nothing depends on anything above it.
	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	planStore := storage.NewPlanStore(fileStorage)
	container.Register("storage", fileStorage)
	container.Register("plans", planStore)

	// Shared response cache.
	maxEntries := cfg.CacheMaxEntries
	if maxEntries <= 0 {
		maxEntries = cache.DefaultMaxSize
	}
	sweepInterval := time.Duration(cfg.CacheSweepMinutes) * time.Minute
	if sweepInterval <= 0 {
		sweepInterval = cache.DefaultSweepInterval
	}
	responseCache := cache.NewResponseCache(maxEntries, sweepInterval)
	container.Register("cache", responseCache)

	// LLM service; a missing API key leaves it in standby rather than
	// failing startup.
	llmService, err := services.NewLLMService()
	if err != nil {
		logger.Warn("LLM service degraded at startup", map[string]interface{}{
			"error": err.Error(),
		})
		llmService = services.NewEmptyLLMService()
	}
	container.Register("llm", llmService)

	// Domain services on top of the gateway and cache.
	container.Register("storyboard", services.NewStoryboardService(llmService, responseCache, planStore))
	container.Register("chat", services.NewChatService(llmService, responseCache))
	container.Register("progress", services.NewProgressService())

	logger.Info("Services initialized", map[string]interface{}{
		"count": len(container.GetNames()),
	})

	return nil
}

// Initialize loads configuration, sets up logging, and wires all services.
func (a *App) Initialize() error {
	baseConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := initLogger(baseConfig.LogDir); err != nil {
		return err
	}

	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		return fmt.Errorf("failed to initialize configuration system: %w", err)
	}
	a.config = config.GetCurrentConfig()

	return InitServices()
}

// SetRouter attaches the HTTP handler the server will serve.
func (a *App) SetRouter(router http.Handler) {
	a.router = router
}

// Run starts the HTTP server and blocks until a termination signal arrives,
// then shuts down gracefully.
func (a *App) Run() error {
	logger := utils.GetLogger()

	if a.server == nil {
		a.server = &http.Server{
			Addr:    ":" + a.config.Port,
			Handler: a.router,
		}
	}

	errChan := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-a.stopChan:
		logger.Info("Shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	a.Cleanup()
	return nil
}

// Cleanup releases background resources: the cache sweeper stops, tracked
// tasks are dropped.
func (a *App) Cleanup() {
	container := di.GetContainer()

	if responseCache, ok := container.Get("cache").(*cache.ResponseCache); ok {
		responseCache.Stop()
	}
	if progress, ok := container.Get("progress").(*services.ProgressService); ok {
		progress.CleanupCompletedTasks(0)
	}
}

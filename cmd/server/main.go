// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/CreativeCreatives/creative-creatives/internal/api"
	"github.com/CreativeCreatives/creative-creatives/internal/app"
	"github.com/CreativeCreatives/creative-creatives/internal/config"
	"github.com/CreativeCreatives/creative-creatives/internal/di"
	"github.com/CreativeCreatives/creative-creatives/internal/utils"

	// Provider registration.
	_ "github.com/CreativeCreatives/creative-creatives/internal/llm/providers/anthropic"
	_ "github.com/CreativeCreatives/creative-creatives/internal/llm/providers/openai"
)

func main() {
	log.Println("Starting Creative Creatives server...")

	// 1. Load base configuration from the environment.
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Base configuration loaded, port: %s", baseConfig.Port)

	// 2. Create required directories.
	createDirectories(baseConfig)

	// 3. Route the global logger to a dated file.
	logFile := filepath.Join(baseConfig.LogDir, fmt.Sprintf("creative-creatives-%s.log", time.Now().Format("2006-01-02")))
	if err := utils.InitLogger(logFile); err != nil {
		log.Printf("File logging unavailable, using console only: %v", err)
	}

	// 4. Initialize the configuration system (merges saved settings).
	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("Failed to initialize configuration system: %v", err)
	}

	// 5. Wire all services into the DI container, in dependency order.
	if err := app.InitServices(); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	if err := performHealthCheck(); err != nil {
		log.Printf("Service health check warning: %v", err)
	}

	// 6. Build the router from the registered services.
	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	log.Printf("Server listening on http://localhost:%s", baseConfig.Port)

	application := app.GetApp()
	application.SetConfig(config.GetCurrentConfig())
	application.SetRouter(router)
	if err := application.Run(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}

	log.Println("Server stopped")
}

func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "plans"),
		cfg.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}

func performHealthCheck() error {
	container := di.GetContainer()

	criticalServices := []string{"llm", "storyboard", "chat", "cache", "plans"}
	for _, serviceName := range criticalServices {
		if service := container.Get(serviceName); service == nil {
			return fmt.Errorf("critical service not registered: %s", serviceName)
		}
	}
	return nil
}

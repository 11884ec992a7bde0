// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	"github.com/CreativeCreatives/creative-creatives/internal/config"
	"github.com/CreativeCreatives/creative-creatives/internal/di"
	"github.com/CreativeCreatives/creative-creatives/internal/services"
	"github.com/CreativeCreatives/creative-creatives/internal/storage"
)

// SetupRouter builds the gin engine. Services are taken from the DI
// container only; the router never constructs them.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()

	container := di.GetContainer()

	storyboardService, ok := container.Get("storyboard").(*services.StoryboardService)
	if !ok {
		return nil, fmt.Errorf("storyboard service not initialized")
	}

	chatService, ok := container.Get("chat").(*services.ChatService)
	if !ok {
		return nil, fmt.Errorf("chat service not initialized")
	}

	llmService, ok := container.Get("llm").(*services.LLMService)
	if !ok {
		return nil, fmt.Errorf("llm service not initialized")
	}

	progressService, ok := container.Get("progress").(*services.ProgressService)
	if !ok {
		return nil, fmt.Errorf("progress service not initialized")
	}

	planStore, ok := container.Get("plans").(*storage.PlanStore)
	if !ok {
		return nil, fmt.Errorf("plan store not initialized")
	}

	responseCache, ok := container.Get("cache").(*cache.ResponseCache)
	if !ok {
		return nil, fmt.Errorf("response cache not initialized")
	}

	handler := NewHandler(
		storyboardService,
		chatService,
		llmService,
		progressService,
		planStore,
		responseCache,
	)

	if cfg != nil && !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/api/health", handler.HealthCheck)

	storyboard := r.Group("/api/storyboard")
	{
		storyboard.POST("/generate", handler.GenerateStoryboard)
		storyboard.POST("/generate/async", handler.GenerateStoryboardAsync)
		storyboard.GET("/plans/:projectId", handler.ListPlans)
		storyboard.GET("/plans/:projectId/:planId", handler.GetPlan)
		storyboard.DELETE("/plans/:projectId/:planId", handler.DeletePlan)
	}

	r.POST("/api/chat", handler.Chat)

	llm := r.Group("/api/llm")
	{
		llm.GET("/status", handler.GetLLMStatus)
		llm.PUT("/config", handler.UpdateLLMConfig)
	}

	cacheGroup := r.Group("/api/cache")
	{
		cacheGroup.GET("/stats", handler.GetCacheStats)
		cacheGroup.POST("/invalidate", handler.InvalidateCache)
	}

	r.GET("/ws/progress/:taskId", handler.ProgressWebSocket)

	return r, nil
}

// corsMiddleware enables cross-origin requests from the web frontend.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

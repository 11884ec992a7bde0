// internal/api/handlers.go
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	"github.com/CreativeCreatives/creative-creatives/internal/config"
	"github.com/CreativeCreatives/creative-creatives/internal/models"
	"github.com/CreativeCreatives/creative-creatives/internal/services"
	"github.com/CreativeCreatives/creative-creatives/internal/storage"
	"github.com/CreativeCreatives/creative-creatives/internal/utils"
)

// Handler holds the services the HTTP layer dispatches into. All instances
// come from the DI container; handlers never construct services themselves.
type Handler struct {
	StoryboardService *services.StoryboardService
	ChatService       *services.ChatService
	LLMService        *services.LLMService
	ProgressService   *services.ProgressService
	PlanStore         *storage.PlanStore
	ResponseCache     *cache.ResponseCache

	responses *ResponseHelper
	logger    *utils.Logger
}

func NewHandler(
	storyboardService *services.StoryboardService,
	chatService *services.ChatService,
	llmService *services.LLMService,
	progressService *services.ProgressService,
	planStore *storage.PlanStore,
	responseCache *cache.ResponseCache,
) *Handler {
	return &Handler{
		StoryboardService: storyboardService,
		ChatService:       chatService,
		LLMService:        llmService,
		ProgressService:   progressService,
		PlanStore:         planStore,
		ResponseCache:     responseCache,
		responses:         NewResponseHelper(),
		logger:            utils.GetLogger(),
	}
}

// HealthCheck reports service liveness and provider readiness.
func (h *Handler) HealthCheck(c *gin.Context) {
	ready, state := h.LLMService.GetProviderStatus()
	h.responses.Success(c, gin.H{
		"status":         "ok",
		"provider_ready": ready,
		"provider_state": state,
	})
}

// GenerateStoryboard runs the full planning pipeline synchronously and
// returns the finished plan. Cached requests return immediately.
func (h *Handler) GenerateStoryboard(c *gin.Context) {
	var request models.StoryboardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.responses.Error(c, http.StatusBadRequest, "invalid_request", "invalid storyboard request body")
		return
	}

	plan, err := h.StoryboardService.GenerateStoryboardPlan(c.Request.Context(), request)
	if err != nil {
		h.responses.AppError(c, err)
		return
	}

	h.responses.Success(c, plan)
}

// GenerateStoryboardAsync starts generation in the background and returns a
// task id the client can follow over the progress websocket.
func (h *Handler) GenerateStoryboardAsync(c *gin.Context) {
	var request models.StoryboardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.responses.Error(c, http.StatusBadRequest, "invalid_request", "invalid storyboard request body")
		return
	}

	taskID := uuid.NewString()
	tracker := h.ProgressService.CreateTracker(taskID)

	go func() {
		tracker.UpdateProgress(10, "Building creative brief")

		plan, err := h.StoryboardService.GenerateStoryboardPlan(context.Background(), request)
		if err != nil {
			tracker.Fail(err.Error())
			return
		}

		tracker.UpdateProgress(90, "Storyboard parsed and normalized")
		tracker.Complete(fmt.Sprintf("Storyboard %s ready", plan.ID))
	}()

	h.responses.Accepted(c, gin.H{"task_id": taskID})
}

// Chat handles one Marcus conversation turn.
func (h *Handler) Chat(c *gin.Context) {
	var request services.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.responses.Error(c, http.StatusBadRequest, "invalid_request", "invalid chat request body")
		return
	}

	message, err := h.ChatService.Chat(c.Request.Context(), request)
	if err != nil {
		h.responses.AppError(c, err)
		return
	}

	h.responses.Success(c, message)
}

// ListPlans returns every stored plan for a project, newest first.
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.PlanStore.ListPlans(c.Param("projectId"))
	if err != nil {
		h.responses.Error(c, http.StatusInternalServerError, "storage_error", "failed to list plans")
		return
	}
	h.responses.Success(c, plans)
}

// GetPlan returns one stored plan.
func (h *Handler) GetPlan(c *gin.Context) {
	plan, err := h.PlanStore.GetPlan(c.Param("projectId"), c.Param("planId"))
	if err != nil {
		h.responses.Error(c, http.StatusNotFound, "not_found", "plan not found")
		return
	}
	h.responses.Success(c, plan)
}

// DeletePlan removes one stored plan.
func (h *Handler) DeletePlan(c *gin.Context) {
	if err := h.PlanStore.DeletePlan(c.Param("projectId"), c.Param("planId")); err != nil {
		h.responses.Error(c, http.StatusInternalServerError, "storage_error", "failed to delete plan")
		return
	}
	h.responses.Success(c, gin.H{"deleted": true})
}

// GetLLMStatus reports the active provider and its readiness.
func (h *Handler) GetLLMStatus(c *gin.Context) {
	ready, state := h.LLMService.GetProviderStatus()
	h.responses.Success(c, gin.H{
		"provider": h.LLMService.GetProviderName(),
		"model":    h.LLMService.GetDefaultModel(),
		"ready":    ready,
		"state":    state,
	})
}

type llmConfigRequest struct {
	Provider string            `json:"provider" binding:"required"`
	Config   map[string]string `json:"config" binding:"required"`
}

// UpdateLLMConfig swaps the active provider and persists the new settings.
func (h *Handler) UpdateLLMConfig(c *gin.Context) {
	var request llmConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.responses.Error(c, http.StatusBadRequest, "invalid_request", "provider and config are required")
		return
	}

	if err := h.LLMService.UpdateProvider(request.Provider, request.Config); err != nil {
		h.responses.Error(c, http.StatusBadRequest, "provider_error", err.Error())
		return
	}

	if err := config.UpdateLLMConfig(request.Provider, request.Config); err != nil {
		h.logger.Warn("Failed to persist LLM configuration", map[string]interface{}{
			"provider": request.Provider,
			"error":    err.Error(),
		})
	}

	h.responses.Success(c, gin.H{"provider": request.Provider}, "Provider updated")
}

type invalidateRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// InvalidateCache removes every cached entry carrying any of the given tags.
func (h *Handler) InvalidateCache(c *gin.Context) {
	var request invalidateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.responses.Error(c, http.StatusBadRequest, "invalid_request", "tags are required")
		return
	}

	removed := h.ResponseCache.InvalidateByTags(request.Tags)
	h.responses.Success(c, gin.H{"removed": removed})
}

// GetCacheStats reports current cache occupancy.
func (h *Handler) GetCacheStats(c *gin.Context) {
	h.responses.Success(c, gin.H{"entries": h.ResponseCache.Len()})
}

// internal/services/storyboard_service.go
package services

import (
	"context"
	"time"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	apperrors "github.com/CreativeCreatives/creative-creatives/internal/errors"
	"github.com/CreativeCreatives/creative-creatives/internal/llm"
	"github.com/CreativeCreatives/creative-creatives/internal/models"
	"github.com/CreativeCreatives/creative-creatives/internal/utils"
)

const (
	storyboardCacheNamespace = "storyboard"
	storyboardCacheTTL       = 6 * time.Hour

	storyboardMaxTokens   = 4000
	storyboardTemperature = 0.7

	defaultTargetDuration = 15
)

var storyboardCacheTags = []string{"storyboard", "marcus"}

// PlanStore persists finished plans. Persistence failures are logged and
// never surfaced to the caller.
type PlanStore interface {
	SavePlan(plan *models.StoryboardPlan) error
}

// StoryboardService orchestrates the full planning pipeline: cache lookup,
// prompt construction, the gateway call, response parsing, and caching of
// the finished plan. The gateway call is the only step allowed to fail.
type StoryboardService struct {
	gateway ChatGateway
	cache   *cache.ResponseCache
	parser  *StoryboardParser
	store   PlanStore
	logger  *utils.Logger
}

// NewStoryboardService creates the orchestrator. store may be nil when plan
// persistence is not configured.
func NewStoryboardService(gateway ChatGateway, responseCache *cache.ResponseCache, store PlanStore) *StoryboardService {
	return &StoryboardService{
		gateway: gateway,
		cache:   responseCache,
		parser:  NewStoryboardParser(),
		store:   store,
		logger:  utils.GetLogger(),
	}
}

// GenerateStoryboardPlan produces a complete plan for the request. Identical
// requests within the cache TTL return the memoized plan without a gateway
// call. The returned error is always a gateway-typed failure; a model
// response that arrives, however malformed, always yields a plan.
func (s *StoryboardService) GenerateStoryboardPlan(ctx context.Context, request models.StoryboardRequest) (*models.StoryboardPlan, error) {
	if request.TargetDuration <= 0 {
		s.logger.Warn("Storyboard request missing target duration, using default", map[string]interface{}{
			"project_id": request.ProjectID,
			"default":    defaultTargetDuration,
		})
		request.TargetDuration = defaultTargetDuration
	}

	cacheKey := s.cache.GenerateKey(storyboardCacheNamespace, request)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if plan, ok := cached.(*models.StoryboardPlan); ok {
			s.logger.Info("Storyboard cache hit", map[string]interface{}{
				"project_id": request.ProjectID,
				"cache_key":  cacheKey,
			})
			return plan, nil
		}
	}

	prompt := BuildStoryboardPrompt(request)

	response, err := s.gateway.CompleteText(ctx, llm.CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: marcusSystemPrompt,
		MaxTokens:    storyboardMaxTokens,
		Temperature:  storyboardTemperature,
	})
	if err != nil {
		s.logger.Error("Storyboard gateway call failed", map[string]interface{}{
			"project_id": request.ProjectID,
			"error":      err.Error(),
		})
		return nil, apperrors.NewGatewayError("storyboard generation failed", err)
	}

	plan := s.parser.Parse(response.Text, request)

	if s.store != nil {
		if err := s.store.SavePlan(plan); err != nil {
			s.logger.Warn("Failed to persist storyboard plan", map[string]interface{}{
				"plan_id": plan.ID,
				"error":   err.Error(),
			})
		}
	}

	s.cache.Set(cacheKey, plan, cache.Options{
		TTL:      storyboardCacheTTL,
		Tags:     storyboardCacheTags,
		Provider: response.ProviderName,
		Model:    response.ModelName,
	})

	s.logger.Info("Storyboard plan generated", map[string]interface{}{
		"plan_id":        plan.ID,
		"project_id":     request.ProjectID,
		"scene_count":    len(plan.Scenes),
		"total_duration": plan.TotalDuration,
	})

	return plan, nil
}

// InvalidateCachedPlans flushes every memoized storyboard, used after prompt
// or schema changes so stale plans cannot be served.
func (s *StoryboardService) InvalidateCachedPlans() int {
	return s.cache.InvalidateByTags([]string{"storyboard"})
}

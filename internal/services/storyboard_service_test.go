// internal/services/storyboard_service_test.go
package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	apperrors "github.com/CreativeCreatives/creative-creatives/internal/errors"
	"github.com/CreativeCreatives/creative-creatives/internal/llm"
	"github.com/CreativeCreatives/creative-creatives/internal/models"
)

// stubGateway records calls and plays back a canned completion.
type stubGateway struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
	lastReq  llm.CompletionRequest
}

func (s *stubGateway) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{
		Text:         s.response,
		ProviderName: "stub",
		ModelName:    "stub-model",
	}, nil
}

func (s *stubGateway) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingStore struct {
	mu    sync.Mutex
	saved []*models.StoryboardPlan
	err   error
}

func (r *recordingStore) SavePlan(plan *models.StoryboardPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, plan)
	return nil
}

func newStoryboardFixture(t *testing.T, gateway *stubGateway, store PlanStore) *StoryboardService {
	t.Helper()
	responseCache := cache.NewResponseCache(100, time.Hour)
	t.Cleanup(responseCache.Stop)
	return NewStoryboardService(gateway, responseCache, store)
}

func TestGenerateStoryboardPlanHappyPath(t *testing.T) {
	gateway := &stubGateway{response: wellFormedResponse}
	store := &recordingStore{}
	service := newStoryboardFixture(t, gateway, store)
	request := testRequest(15)

	plan, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)
	assertStructurallyValid(t, plan, request)
	assert.Len(t, plan.Scenes, 3)
	assert.Equal(t, 15, plan.TotalDuration)

	require.Len(t, store.saved, 1)
	assert.Equal(t, plan.ID, store.saved[0].ID)

	// The prompt reaches the gateway with the persona attached.
	assert.Contains(t, gateway.lastReq.Prompt, "Acme")
	assert.Contains(t, gateway.lastReq.SystemPrompt, "Marcus")
}

func TestGenerateStoryboardPlanCacheIdempotence(t *testing.T) {
	gateway := &stubGateway{response: wellFormedResponse}
	service := newStoryboardFixture(t, gateway, nil)
	request := testRequest(15)

	first, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)
	second, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.callCount(), "second identical request must be a cache hit")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TotalDuration, second.TotalDuration)
}

func TestGenerateStoryboardPlanDistinctRequestsMiss(t *testing.T) {
	gateway := &stubGateway{response: wellFormedResponse}
	service := newStoryboardFixture(t, gateway, nil)

	_, err := service.GenerateStoryboardPlan(context.Background(), testRequest(15))
	require.NoError(t, err)
	_, err = service.GenerateStoryboardPlan(context.Background(), testRequest(30))
	require.NoError(t, err)

	assert.Equal(t, 2, gateway.callCount())
}

func TestGenerateStoryboardPlanGatewayFailure(t *testing.T) {
	gateway := &stubGateway{err: errors.New("connection refused")}
	service := newStoryboardFixture(t, gateway, nil)

	plan, err := service.GenerateStoryboardPlan(context.Background(), testRequest(15))
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, apperrors.IsGatewayError(err), "gateway failures must carry the gateway error type")

	// A failure must not poison the cache: a later success goes through.
	gateway.err = nil
	gateway.response = wellFormedResponse
	plan, err = service.GenerateStoryboardPlan(context.Background(), testRequest(15))
	require.NoError(t, err)
	assert.NotNil(t, plan)
}

func TestGenerateStoryboardPlanMalformedResponseStillSucceeds(t *testing.T) {
	gateway := &stubGateway{response: "I am sorry, I cannot produce JSON today."}
	service := newStoryboardFixture(t, gateway, nil)
	request := testRequest(30)

	plan, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err, "parse degradation is never an error")
	assertStructurallyValid(t, plan, request)
	assert.Len(t, plan.Scenes, 4)
}

func TestGenerateStoryboardPlanHoldsTightTargetBudget(t *testing.T) {
	// Uneven model durations at a short target: flooring must not push the
	// plan over the requested total.
	response := "```json\n" + `{
  "scenes": [
    {"sceneNumber": 1, "title": "Open", "description": "Product on the counter.", "duration": 6, "prompt": "Product hero shot"},
    {"sceneNumber": 2, "title": "Use", "description": "Hands in action.", "duration": 2, "prompt": "Close-up of hands"},
    {"sceneNumber": 3, "title": "Close", "description": "Logo and tagline.", "duration": 2, "prompt": "Logo card"}
  ]
}` + "\n```"

	gateway := &stubGateway{response: response}
	service := newStoryboardFixture(t, gateway, nil)
	request := testRequest(6)

	plan, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)
	assertStructurallyValid(t, plan, request)
	assert.Equal(t, []int{2, 2, 2}, sceneDurations(plan))
	assert.LessOrEqual(t, plan.TotalDuration, 6)
}

func TestGenerateStoryboardPlanDefaultsTargetDuration(t *testing.T) {
	gateway := &stubGateway{response: wellFormedResponse}
	service := newStoryboardFixture(t, gateway, nil)

	request := testRequest(0)
	plan, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(plan.Scenes), 3)
	assert.LessOrEqual(t, plan.TotalDuration, 15)
}

func TestGenerateStoryboardPlanStoreFailureIsNonFatal(t *testing.T) {
	gateway := &stubGateway{response: wellFormedResponse}
	store := &recordingStore{err: errors.New("disk full")}
	service := newStoryboardFixture(t, gateway, store)

	plan, err := service.GenerateStoryboardPlan(context.Background(), testRequest(15))
	require.NoError(t, err)
	assert.NotNil(t, plan)
}

func TestInvalidateCachedPlans(t *testing.T) {
	gateway := &stubGateway{response: wellFormedResponse}
	service := newStoryboardFixture(t, gateway, nil)
	request := testRequest(15)

	_, err := service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)

	removed := service.InvalidateCachedPlans()
	assert.Equal(t, 1, removed)

	_, err = service.GenerateStoryboardPlan(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.callCount(), "invalidation forces a fresh generation")
}

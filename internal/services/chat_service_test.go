// internal/services/chat_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	apperrors "github.com/CreativeCreatives/creative-creatives/internal/errors"
	"github.com/CreativeCreatives/creative-creatives/internal/models"
)

func newChatFixture(t *testing.T, gateway *stubGateway) *ChatService {
	t.Helper()
	responseCache := cache.NewResponseCache(100, time.Hour)
	t.Cleanup(responseCache.Stop)
	return NewChatService(gateway, responseCache)
}

func chatRequestWith(content string) ChatRequest {
	return ChatRequest{
		ProjectID: "proj-1",
		Brand:     models.BrandInfo{Name: "Acme", Industry: "tools"},
		Messages: []models.ChatMessage{
			{ID: "m1", Role: RoleUser, Content: content, Timestamp: time.Now()},
		},
	}
}

func TestChatReturnsAssistantMessage(t *testing.T) {
	gateway := &stubGateway{response: "Let's open with a bold visual hook."}
	service := newChatFixture(t, gateway)

	message, err := service.Chat(context.Background(), chatRequestWith("How should the ad start?"))
	require.NoError(t, err)

	assert.Equal(t, RoleAssistant, message.Role)
	assert.Equal(t, "Let's open with a bold visual hook.", message.Content)
	assert.NotEmpty(t, message.ID)
	assert.False(t, message.Timestamp.IsZero())

	assert.Contains(t, gateway.lastReq.Prompt, "Acme")
	assert.Contains(t, gateway.lastReq.Prompt, "How should the ad start?")
	assert.Contains(t, gateway.lastReq.SystemPrompt, "creative director")
}

func TestChatRejectsEmptyTranscript(t *testing.T) {
	service := newChatFixture(t, &stubGateway{response: "hi"})

	_, err := service.Chat(context.Background(), ChatRequest{ProjectID: "p"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestChatMemoizesIdenticalTranscripts(t *testing.T) {
	gateway := &stubGateway{response: "Same brief, same answer."}
	service := newChatFixture(t, gateway)

	request := chatRequestWith("Pitch me an opening")
	first, err := service.Chat(context.Background(), request)
	require.NoError(t, err)
	second, err := service.Chat(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.callCount())
	assert.Equal(t, first.Content, second.Content)
	assert.NotEqual(t, first.ID, second.ID, "cached replies still get fresh message ids")
}

func TestChatDistinctTranscriptsMiss(t *testing.T) {
	gateway := &stubGateway{response: "reply"}
	service := newChatFixture(t, gateway)

	_, err := service.Chat(context.Background(), chatRequestWith("first question"))
	require.NoError(t, err)
	_, err = service.Chat(context.Background(), chatRequestWith("second question"))
	require.NoError(t, err)

	assert.Equal(t, 2, gateway.callCount())
}

func TestChatGatewayFailure(t *testing.T) {
	gateway := &stubGateway{err: errors.New("quota exceeded")}
	service := newChatFixture(t, gateway)

	_, err := service.Chat(context.Background(), chatRequestWith("hello"))
	require.Error(t, err)
	assert.True(t, apperrors.IsGatewayError(err))
}

// internal/services/chat_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	apperrors "github.com/CreativeCreatives/creative-creatives/internal/errors"
	"github.com/CreativeCreatives/creative-creatives/internal/llm"
	"github.com/CreativeCreatives/creative-creatives/internal/models"
	"github.com/CreativeCreatives/creative-creatives/internal/utils"
)

const (
	chatCacheNamespace = "chat"
	chatCacheTTL       = 30 * time.Minute

	chatMaxTokens   = 1000
	chatTemperature = 0.8
)

// marcusSystemPrompt establishes the creative-director persona shared by the
// chat and storyboard pipelines.
const marcusSystemPrompt = "You are Marcus, a world-class advertising creative director " +
	"with 20 years of experience crafting memorable video campaigns. You ask sharp " +
	"questions about the brand, audience, and goals, and you give concrete, visual, " +
	"production-ready suggestions. Keep answers focused and confident."

// ChatRequest is one turn of the Marcus conversation, carrying the brand
// context and the transcript so far.
type ChatRequest struct {
	ProjectID string               `json:"projectId"`
	Brand     models.BrandInfo     `json:"brand"`
	Messages  []models.ChatMessage `json:"messages"`
}

// ChatService drives the Marcus conversation that precedes storyboard
// generation. Replies are memoized briefly so a rapid resend of the same
// transcript does not trigger a second model call.
type ChatService struct {
	gateway ChatGateway
	cache   *cache.ResponseCache
	logger  *utils.Logger
}

func NewChatService(gateway ChatGateway, responseCache *cache.ResponseCache) *ChatService {
	return &ChatService{
		gateway: gateway,
		cache:   responseCache,
		logger:  utils.GetLogger(),
	}
}

// Chat returns Marcus's reply to the latest user turn. Only the reply text is
// memoized; ids and timestamps are minted fresh per call.
func (s *ChatService) Chat(ctx context.Context, request ChatRequest) (*models.ChatMessage, error) {
	if len(request.Messages) == 0 {
		return nil, apperrors.NewValidationError("chat request has no messages", nil)
	}

	cacheKey := s.cache.GenerateKey(chatCacheNamespace, map[string]interface{}{
		"brand":    request.Brand,
		"messages": transcriptLines(request.Messages),
	})
	if cached, ok := s.cache.Get(cacheKey); ok {
		if text, ok := cached.(string); ok {
			return s.assistantMessage(text), nil
		}
	}

	response, err := s.gateway.CompleteText(ctx, llm.CompletionRequest{
		Prompt:       buildChatPrompt(request),
		SystemPrompt: marcusSystemPrompt,
		MaxTokens:    chatMaxTokens,
		Temperature:  chatTemperature,
	})
	if err != nil {
		s.logger.Error("Chat gateway call failed", map[string]interface{}{
			"project_id": request.ProjectID,
			"error":      err.Error(),
		})
		return nil, apperrors.NewGatewayError("chat completion failed", err)
	}

	reply := strings.TrimSpace(response.Text)
	s.cache.Set(cacheKey, reply, cache.Options{
		TTL:      chatCacheTTL,
		Tags:     []string{"marcus"},
		Provider: response.ProviderName,
		Model:    response.ModelName,
	})

	return s.assistantMessage(reply), nil
}

func (s *ChatService) assistantMessage(content string) *models.ChatMessage {
	return &models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// buildChatPrompt flattens the brand context and transcript into a single
// prompt for providers that take one user message.
func buildChatPrompt(request ChatRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Brand: %s", request.Brand.Name))
	if request.Brand.Industry != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", request.Brand.Industry))
	}
	sb.WriteString("\n")
	if request.Brand.TargetAudience != "" {
		sb.WriteString(fmt.Sprintf("Target audience: %s\n", request.Brand.TargetAudience))
	}
	if request.Brand.BrandVoice != "" {
		sb.WriteString(fmt.Sprintf("Brand voice: %s\n", request.Brand.BrandVoice))
	}

	sb.WriteString("\nConversation:\n")
	for _, line := range transcriptLines(request.Messages) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRespond as Marcus to the last message.")

	return sb.String()
}

func transcriptLines(messages []models.ChatMessage) []string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return lines
}

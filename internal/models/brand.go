// internal/models/brand.go
package models

import "time"

// Brand voice values accepted from callers. The prompt suggests these to the
// model but free text is tolerated on the way back in.
const (
	VoiceProfessional  = "professional"
	VoiceCasual        = "casual"
	VoiceFriendly      = "friendly"
	VoiceAuthoritative = "authoritative"
	VoicePlayful       = "playful"
)

// BrandInfo describes the brand the advertisement is planned for. Supplied by
// the caller and treated as immutable input.
type BrandInfo struct {
	Name           string   `json:"name"`
	Industry       string   `json:"industry"`
	TargetAudience string   `json:"targetAudience"`
	BrandVoice     string   `json:"brandVoice"`
	Description    string   `json:"description"`
	ColorPalette   []string `json:"colorPalette,omitempty"`
}

// ChatMessage is one turn of the conversation with the creative director
// persona. The sequence is append-only from the caller's perspective.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// internal/services/prompt_builder.go
package services

import (
	"fmt"
	"strings"

	"github.com/CreativeCreatives/creative-creatives/internal/models"
)

// storyboardSchemaExample is the JSON shape the model is instructed to follow.
// The parser tolerates deviations from it, but the closer the model sticks to
// this schema the cheaper the recovery path.
const storyboardSchemaExample = `{
  "narrative": {
    "hook": "Opening moment that grabs attention",
    "problem": "The tension or need the audience recognizes",
    "solution": "How the brand resolves it",
    "callToAction": "What the viewer should do next"
  },
  "scenes": [
    {
      "sceneNumber": 1,
      "title": "Scene title",
      "description": "What happens on screen",
      "duration": 5,
      "prompt": "Image generation prompt for this scene",
      "visualStyle": {
        "lighting": "natural golden hour",
        "mood": "aspirational",
        "cameraAngle": "medium close-up",
        "composition": "rule of thirds"
      }
    }
  ],
  "platformOptimization": {
    "primaryPlatform": "instagram",
    "aspectRatio": "9:16",
    "pacing": "fast",
    "interactionElements": ["caption overlay"]
  },
  "advertisingEffectiveness": {
    "hookStrategy": "pattern interrupt",
    "emotionalArc": "curiosity to delight",
    "personalization": "speaks directly to the target audience",
    "shareability": "quotable closing line",
    "ctaPower": "clear single action"
  },
  "visualConsistency": {
    "recurringCharacters": ["brand protagonist"],
    "colorPalette": ["#1A1A2E", "#E94560"],
    "style": "cinematic realism",
    "cinematographicTheme": "handheld intimacy"
  }
}`

// BuildStoryboardPrompt assembles the full instruction prompt for a
// storyboard planning request. Pure and deterministic: identical requests
// produce identical prompts, which keeps the response cache effective.
func BuildStoryboardPrompt(request models.StoryboardRequest) string {
	var sb strings.Builder

	maxScenes := request.MaxScenes()

	sb.WriteString("You are Marcus, an expert advertising creative director. ")
	sb.WriteString("Design a complete video ad storyboard for the brand below.\n\n")

	sb.WriteString("## Brand\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", request.Brand.Name))
	if request.Brand.Industry != "" {
		sb.WriteString(fmt.Sprintf("- Industry: %s\n", request.Brand.Industry))
	}
	if request.Brand.TargetAudience != "" {
		sb.WriteString(fmt.Sprintf("- Target audience: %s\n", request.Brand.TargetAudience))
	}
	if request.Brand.BrandVoice != "" {
		sb.WriteString(fmt.Sprintf("- Brand voice: %s\n", request.Brand.BrandVoice))
	}
	if request.Brand.Description != "" {
		sb.WriteString(fmt.Sprintf("- Description: %s\n", request.Brand.Description))
	}
	if len(request.Brand.ColorPalette) > 0 {
		sb.WriteString(fmt.Sprintf("- Color palette: %s\n", strings.Join(request.Brand.ColorPalette, ", ")))
	}

	if len(request.ChatContext) > 0 {
		sb.WriteString("\n## Conversation so far\n")
		for _, line := range request.ChatContext {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	if len(request.AdGoals) > 0 {
		sb.WriteString("\n## Advertising goals\n")
		for _, goal := range request.AdGoals {
			sb.WriteString(fmt.Sprintf("- %s\n", goal))
		}
	}

	sb.WriteString("\n## Requirements\n")
	sb.WriteString(fmt.Sprintf("- Total ad duration: exactly %d seconds\n", request.TargetDuration))
	sb.WriteString(fmt.Sprintf("- Use at most %d scenes; scene durations must sum to the total\n", maxScenes))
	sb.WriteString("- Every scene duration must be at least 2 seconds\n")
	sb.WriteString("- Each scene needs a vivid image-generation prompt reflecting the brand\n")

	sb.WriteString("\n## Output format\n")
	sb.WriteString("Respond with ONLY a JSON object, no commentary, following this exact schema:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(storyboardSchemaExample)
	sb.WriteString("\n```\n")

	return sb.String()
}

// internal/services/prompt_builder_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildStoryboardPromptDeterministic(t *testing.T) {
	request := testRequest(15)
	request.ChatContext = []string{"user: I want something upbeat", "assistant: Understood"}

	first := BuildStoryboardPrompt(request)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildStoryboardPrompt(request))
	}
}

func TestBuildStoryboardPromptEmbedsRequest(t *testing.T) {
	request := testRequest(30)
	request.Brand.Description = "Precision tools for serious makers"
	request.Brand.ColorPalette = []string{"#101820", "#F2AA4C"}
	request.ChatContext = []string{"user: focus on craftsmanship"}
	request.AdGoals = []string{"awareness", "drive preorders"}

	prompt := BuildStoryboardPrompt(request)

	assert.Contains(t, prompt, "Acme")
	assert.Contains(t, prompt, "tools")
	assert.Contains(t, prompt, "makers")
	assert.Contains(t, prompt, "Precision tools for serious makers")
	assert.Contains(t, prompt, "#101820, #F2AA4C")
	assert.Contains(t, prompt, "focus on craftsmanship")
	assert.Contains(t, prompt, "drive preorders")
	assert.Contains(t, prompt, "exactly 30 seconds")
	assert.Contains(t, prompt, "at most 4 scenes")
}

func TestBuildStoryboardPromptSceneCeiling(t *testing.T) {
	short := BuildStoryboardPrompt(testRequest(15))
	long := BuildStoryboardPrompt(testRequest(30))

	assert.Contains(t, short, "at most 3 scenes")
	assert.Contains(t, long, "at most 4 scenes")
}

func TestBuildStoryboardPromptIncludesSchema(t *testing.T) {
	prompt := BuildStoryboardPrompt(testRequest(15))

	for _, key := range []string{
		`"narrative"`, `"scenes"`, `"sceneNumber"`, `"title"`, `"description"`,
		`"duration"`, `"prompt"`, `"visualStyle"`, `"platformOptimization"`,
		`"advertisingEffectiveness"`, `"visualConsistency"`,
	} {
		assert.Contains(t, prompt, key)
	}
	assert.Contains(t, prompt, "```json")
}

func TestBuildStoryboardPromptOmitsEmptySections(t *testing.T) {
	request := testRequest(15)
	request.ChatContext = nil
	request.AdGoals = nil
	request.Brand.Description = ""

	prompt := BuildStoryboardPrompt(request)

	assert.NotContains(t, prompt, "Conversation so far")
	assert.NotContains(t, prompt, "Advertising goals")
	assert.NotContains(t, prompt, "Description:")
}

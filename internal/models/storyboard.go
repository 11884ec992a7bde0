// internal/models/storyboard.go
package models

import "time"

// StoryboardRequest carries everything the planner needs for one generation
// call. ChatContext is the flattened transcript of the Marcus conversation.
// The request itself is never persisted by the planner.
type StoryboardRequest struct {
	ProjectID      string    `json:"projectId"`
	Brand          BrandInfo `json:"brand"`
	ChatContext    []string  `json:"chatContext"`
	AdGoals        []string  `json:"adGoals"`
	TargetDuration int       `json:"targetDuration"` // seconds, typically 15 or 30
}

// MaxScenes returns the scene-count ceiling for this request: 3 scenes for
// short spots (<= 15s), 4 otherwise.
func (r StoryboardRequest) MaxScenes() int {
	if r.TargetDuration <= 15 {
		return 3
	}
	return 4
}

// VisualStyle holds the per-scene cinematography attributes. All fields are
// free text suggested by the prompt, not strictly validated.
type VisualStyle struct {
	Lighting       string `json:"lighting"`
	Mood           string `json:"mood"`
	CameraAngle    string `json:"cameraAngle"`
	Composition    string `json:"composition"`
	CameraMovement string `json:"cameraMovement,omitempty"`
	Technique      string `json:"technique,omitempty"`
}

// GeneratedImage is a rendering of a scene produced by the downstream image
// workflow. The planner creates scenes with an empty image list; everything
// here is owned by that workflow.
type GeneratedImage struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoryboardScene is one timed segment of the planned advertisement.
type StoryboardScene struct {
	ID              string           `json:"id"`
	SceneNumber     int              `json:"sceneNumber"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Duration        int              `json:"duration"` // seconds, always >= 2
	Prompt          string           `json:"prompt"`   // image-generation prompt
	VisualStyle     VisualStyle      `json:"visualStyle"`
	GeneratedImages []GeneratedImage `json:"generatedImages"`
	SelectedImageID string           `json:"selectedImageId,omitempty"`
}

// NarrativeStructure captures the dramatic arc of the ad.
type NarrativeStructure struct {
	Hook         string `json:"hook"`
	Problem      string `json:"problem,omitempty"`
	Solution     string `json:"solution"`
	CallToAction string `json:"callToAction"`
}

// PlatformOptimization holds delivery hints for the primary target platform.
type PlatformOptimization struct {
	PrimaryPlatform     string   `json:"primaryPlatform"`
	AspectRatio         string   `json:"aspectRatio"`
	Pacing              string   `json:"pacing"`
	InteractionElements []string `json:"interactionElements,omitempty"`
}

// AdvertisingEffectiveness records why the plan should work as an ad.
type AdvertisingEffectiveness struct {
	HookStrategy    string `json:"hookStrategy"`
	EmotionalArc    string `json:"emotionalArc"`
	Personalization string `json:"personalization"`
	Shareability    string `json:"shareability"`
	CTAPower        string `json:"ctaPower"`
}

// VisualConsistency describes what should stay recognizable across scenes.
type VisualConsistency struct {
	RecurringCharacters  []string `json:"recurringCharacters,omitempty"`
	ColorPalette         []string `json:"colorPalette,omitempty"`
	Style                string   `json:"style"`
	CinematographicTheme string   `json:"cinematographicTheme"`
}

// StoryboardPlan is the structured multi-scene blueprint returned by the
// planner. TotalDuration is always recomputed as the sum of scene durations,
// never set independently.
type StoryboardPlan struct {
	ID                       string                   `json:"id"`
	ProjectID                string                   `json:"projectId"`
	TotalDuration            int                      `json:"totalDuration"`
	Scenes                   []StoryboardScene        `json:"scenes"`
	PlatformOptimization     PlatformOptimization     `json:"platformOptimization"`
	AdvertisingEffectiveness AdvertisingEffectiveness `json:"advertisingEffectiveness"`
	VisualConsistency        VisualConsistency        `json:"visualConsistency"`
	Narrative                NarrativeStructure       `json:"narrative"`
	CreatedBy                string                   `json:"createdBy"` // always "marcus"
	CreatedAt                time.Time                `json:"createdAt"`
}

// RecomputeTotalDuration re-derives TotalDuration from the scene list.
func (p *StoryboardPlan) RecomputeTotalDuration() {
	total := 0
	for _, scene := range p.Scenes {
		total += scene.Duration
	}
	p.TotalDuration = total
}

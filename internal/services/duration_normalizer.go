// internal/services/duration_normalizer.go
package services

import "github.com/CreativeCreatives/creative-creatives/internal/models"

// minSceneDuration is the floor for any scene, in seconds. Shorter scenes
// are not renderable as meaningful ad segments.
const minSceneDuration = 2

// NormalizeSceneDurations shrinks scene durations in place so their sum does
// not exceed targetDuration. Plans that already fit are left untouched; plans
// that run over are scaled proportionally, with the last scene absorbing the
// rounding remainder. Every scene keeps at least minSceneDuration, so the
// total only exceeds the target when the target itself is smaller than
// minSceneDuration times the scene count.
func NormalizeSceneDurations(scenes []models.StoryboardScene, targetDuration int) {
	if len(scenes) == 0 {
		return
	}

	current := 0
	for _, scene := range scenes {
		current += scene.Duration
	}
	if current <= targetDuration {
		return
	}

	ratio := float64(targetDuration) / float64(current)
	remaining := targetDuration
	for i := range scenes[:len(scenes)-1] {
		scaled := int(float64(scenes[i].Duration) * ratio)
		if scaled < minSceneDuration {
			scaled = minSceneDuration
		}
		scenes[i].Duration = scaled
		remaining -= scaled
	}

	last := remaining
	if last < minSceneDuration {
		last = minSceneDuration
	}
	scenes[len(scenes)-1].Duration = last

	// Clamping scenes up to the floor can push the total back over target.
	// Reclaim the overrun from scenes that still sit above the floor,
	// back to front.
	total := 0
	for _, scene := range scenes {
		total += scene.Duration
	}
	for i := len(scenes) - 1; i >= 0 && total > targetDuration; i-- {
		give := scenes[i].Duration - minSceneDuration
		if give > total-targetDuration {
			give = total - targetDuration
		}
		scenes[i].Duration -= give
		total -= give
	}
}

// cmd/demo/main.go
//
// Offline demonstration of the response-recovery pipeline: feeds several
// deliberately malformed model outputs through the parser and prints the
// plan each one degrades to. No API key or network access required.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/CreativeCreatives/creative-creatives/internal/cache"
	"github.com/CreativeCreatives/creative-creatives/internal/models"
	"github.com/CreativeCreatives/creative-creatives/internal/services"
)

var demoRequest = models.StoryboardRequest{
	ProjectID: "demo-project",
	Brand: models.BrandInfo{
		Name:           "Lumen Coffee",
		Industry:       "specialty coffee",
		TargetAudience: "young urban professionals",
		BrandVoice:     models.VoiceFriendly,
	},
	AdGoals:        []string{"drive app downloads", "build brand awareness"},
	TargetDuration: 15,
}

var demoResponses = []struct {
	name string
	text string
}{
	{
		name: "clean fenced JSON",
		text: "Here is your storyboard:\n```json\n{\"scenes\":[{\"sceneNumber\":1,\"title\":\"Morning Rush\",\"description\":\"Commuter grabs a Lumen cold brew\",\"duration\":5,\"prompt\":\"commuter with iced coffee, golden hour\"},{\"sceneNumber\":2,\"title\":\"The Ritual\",\"description\":\"Barista crafts a pour-over\",\"duration\":5,\"prompt\":\"slow pour-over, steam, macro shot\"},{\"sceneNumber\":3,\"title\":\"Download\",\"description\":\"App order ready on arrival\",\"duration\":5,\"prompt\":\"phone showing Lumen app, cup sliding into frame\"}]}\n```\nEnjoy!",
	},
	{
		name: "bare JSON with trailing commas",
		text: `Sure! {"scenes":[{"title":"Wake Up","description":"Alarm, empty mug","duration":8,},{"title":"Lumen Moment","description":"First sip, eyes open","duration":7,},]}`,
	},
	{
		name: "truncated object, scenes section intact",
		text: `{"narrative":{"hook":"What if mornings started themselves?"},"scenes":[{"title":"Autopilot","description":"Order placed from bed","duration":6},{"title":"Pickup","description":"No line, no wait","duration":5}],"platformOpt`,
	},
	{
		name: "plain prose with scene markers",
		text: "I'd structure it like this.\nScene 1: Open on a rainy street, our hero shivering.\nScene 2: They duck into Lumen Coffee and warmth floods the frame.\nScene 3: Close on the logo with a call to action.\nThe hook is the rain. The solution is the warm shop.",
	},
	{
		name: "no structure at all",
		text: "As a language model I think coffee advertising is a fascinating subject with a long history.",
	},
}

func main() {
	parser := services.NewStoryboardParser()

	fmt.Println("=== Response recovery demo ===")
	for _, response := range demoResponses {
		fmt.Printf("\n--- %s ---\n", response.name)
		plan := parser.Parse(response.text, demoRequest)
		printPlan(plan)
	}

	fmt.Println("\n=== Cache key normalization demo ===")
	demoCacheKeys()
}

func printPlan(plan *models.StoryboardPlan) {
	fmt.Printf("plan %s: %d scenes, %ds total\n", plan.ID, len(plan.Scenes), plan.TotalDuration)
	for _, scene := range plan.Scenes {
		fmt.Printf("  %d. %-16s %2ds  %s\n", scene.SceneNumber, scene.Title, scene.Duration, scene.Description)
	}
	narrative, _ := json.Marshal(plan.Narrative)
	fmt.Printf("  narrative: %s\n", narrative)
}

func demoCacheKeys() {
	responseCache := cache.NewResponseCache(cache.DefaultMaxSize, cache.DefaultSweepInterval)
	defer responseCache.Stop()

	withTrace := map[string]interface{}{
		"brand":     "Lumen Coffee",
		"duration":  15,
		"timestamp": "2026-08-31T10:00:00Z",
		"requestId": "abc-123",
	}
	withoutTrace := map[string]interface{}{
		"brand":    "Lumen Coffee",
		"duration": 15,
	}

	key1 := responseCache.GenerateKey("storyboard", withTrace)
	key2 := responseCache.GenerateKey("storyboard", withoutTrace)
	fmt.Printf("with trace fields:    %s\n", key1)
	fmt.Printf("without trace fields: %s\n", key2)
	fmt.Printf("identical after normalization: %v\n", key1 == key2)
}

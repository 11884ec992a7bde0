// internal/services/storyboard_parser.go
package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/CreativeCreatives/creative-creatives/internal/models"
	"github.com/CreativeCreatives/creative-creatives/internal/utils"
)

// maxParsedScenes is the hallucination ceiling: a candidate claiming more
// scenes than this is treated as a parsing artifact and rejected, letting the
// cascade fall through to the next recovery stage.
const maxParsedScenes = 6

var (
	fencedBlockPatterns = []*regexp.Regexp{
		regexp.MustCompile("(?s)```json\\s*(.*?)```"),
		regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```"),
	}
	// Approximates nested JSON objects a few levels deep. Deeper structures
	// are handled by section reconstruction, not by this pattern.
	balancedObjectPattern = regexp.MustCompile(`\{(?:[^{}]|\{(?:[^{}]|\{[^{}]*\})*\})*\}`)
	trailingCommaPattern  = regexp.MustCompile(`,\s*([}\]])`)
	sceneMarkerPattern    = regexp.MustCompile(`(?i)^\s*(?:scene\s*(\d+)|(\d+)[.)])\s*[:\-]?\s*(.*)$`)
	sentenceSplitPattern  = regexp.MustCompile(`[.!?]+\s+`)
)

// planCandidate is the loose intermediate shape a cascade stage produces
// before post-processing turns it into a StoryboardPlan. Pointer sections
// distinguish "model omitted this" from "model sent an empty object".
type planCandidate struct {
	Narrative                *models.NarrativeStructure       `json:"narrative"`
	Scenes                   []sceneCandidate                 `json:"scenes"`
	PlatformOptimization     *models.PlatformOptimization     `json:"platformOptimization"`
	AdvertisingEffectiveness *models.AdvertisingEffectiveness `json:"advertisingEffectiveness"`
	VisualConsistency        *models.VisualConsistency        `json:"visualConsistency"`
}

// sceneCandidate tolerates the shapes models actually emit: fractional
// durations, missing fields, absent visual style.
type sceneCandidate struct {
	SceneNumber int                 `json:"sceneNumber"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Duration    float64             `json:"duration"`
	Prompt      string              `json:"prompt"`
	VisualStyle *models.VisualStyle `json:"visualStyle"`
}

// StoryboardParser recovers a structurally valid StoryboardPlan from a
// model's raw completion text. Parse never fails: each recovery stage runs
// only when the prior one yielded nothing valid, and the final stage
// synthesizes a plan from the request alone.
type StoryboardParser struct {
	logger *utils.Logger
}

func NewStoryboardParser() *StoryboardParser {
	return &StoryboardParser{logger: utils.GetLogger()}
}

// Parse converts raw completion text into a complete plan. Total by
// construction: every input, including the empty string, produces a plan.
func (p *StoryboardParser) Parse(rawText string, request models.StoryboardRequest) *models.StoryboardPlan {
	candidate, stage := p.extractCandidate(rawText, request)

	p.logger.Debug("Parsed storyboard response", map[string]interface{}{
		"stage":       stage,
		"scene_count": len(candidate.Scenes),
		"project_id":  request.ProjectID,
	})

	return p.finalize(candidate, request)
}

func (p *StoryboardParser) extractCandidate(rawText string, request models.StoryboardRequest) (*planCandidate, string) {
	if c := p.parseFencedBlocks(rawText); c != nil {
		return c, "fenced_block"
	}
	if c := p.parseBalancedObjects(rawText); c != nil {
		return c, "balanced_scan"
	}
	if c := p.reconstructSections(rawText); c != nil {
		return c, "section_reconstruction"
	}
	if c := p.mineText(rawText); c != nil {
		return c, "text_mining"
	}
	return p.syntheticCandidate(request), "synthetic_default"
}

// parseFencedBlocks tries each code-fence pattern in order and accepts the
// first fenced body that parses and validates.
func (p *StoryboardParser) parseFencedBlocks(rawText string) *planCandidate {
	for _, pattern := range fencedBlockPatterns {
		for _, match := range pattern.FindAllStringSubmatch(rawText, -1) {
			if c := tryParseCandidate(sanitizeJSONCandidate(match[1])); c != nil {
				return c
			}
		}
	}
	return nil
}

// parseBalancedObjects scans the whole text for object-shaped substrings and
// tries them longest first, since the longest match is most likely the
// complete plan rather than a nested fragment.
func (p *StoryboardParser) parseBalancedObjects(rawText string) *planCandidate {
	candidates := balancedObjectPattern.FindAllString(rawText, -1)
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	for _, candidate := range candidates {
		if c := tryParseCandidate(sanitizeJSONCandidate(candidate)); c != nil {
			return c
		}
	}
	return nil
}

// reconstructSections locates the scenes, narrative, and visualConsistency
// sections independently and splices them into a fresh wrapper object. Useful
// when the outer object is truncated but individual sections survived.
func (p *StoryboardParser) reconstructSections(rawText string) *planCandidate {
	scenes := extractJSONValue(rawText, "scenes", '[', ']')
	if scenes == "" {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`{"scenes": `)
	sb.WriteString(scenes)
	if narrative := extractJSONValue(rawText, "narrative", '{', '}'); narrative != "" {
		sb.WriteString(`, "narrative": `)
		sb.WriteString(narrative)
	}
	if consistency := extractJSONValue(rawText, "visualConsistency", '{', '}'); consistency != "" {
		sb.WriteString(`, "visualConsistency": `)
		sb.WriteString(consistency)
	}
	sb.WriteString(`}`)

	return tryParseCandidate(sanitizeJSONCandidate(sb.String()))
}

// mineText approximates scenes and narrative from plain prose. Returns nil
// when no scene text at all can be recovered, which hands control to the
// synthetic default.
func (p *StoryboardParser) mineText(rawText string) *planCandidate {
	scenes := mineScenes(rawText)
	if len(scenes) == 0 {
		return nil
	}
	if len(scenes) > maxParsedScenes {
		scenes = scenes[:maxParsedScenes]
	}
	return &planCandidate{
		Scenes:    scenes,
		Narrative: mineNarrative(rawText),
	}
}

// syntheticCandidate builds the fixed fallback template: Hook/Solution/CTA
// for short spots, with a Problem scene added for longer ones.
func (p *StoryboardParser) syntheticCandidate(request models.StoryboardRequest) *planCandidate {
	brand := brandName(request.Brand)

	type sceneTemplate struct {
		title       string
		description string
		prompt      string
	}

	templates := []sceneTemplate{
		{
			title:       "Hook",
			description: fmt.Sprintf("Attention-grabbing opening that introduces %s.", brand),
			prompt:      fmt.Sprintf("Striking opening shot introducing %s, bold composition, high energy", brand),
		},
	}
	if request.MaxScenes() >= 4 {
		templates = append(templates, sceneTemplate{
			title:       "Problem",
			description: fmt.Sprintf("The everyday frustration that %s's audience knows too well.", brand),
			prompt:      fmt.Sprintf("Relatable moment of frustration, muted tones, audience of %s", brand),
		})
	}
	templates = append(templates,
		sceneTemplate{
			title:       "Solution",
			description: fmt.Sprintf("%s in action, resolving the need effortlessly.", brand),
			prompt:      fmt.Sprintf("%s product in action, confident and polished, warm light", brand),
		},
		sceneTemplate{
			title:       "Call to Action",
			description: fmt.Sprintf("A clear invitation to engage with %s right now.", brand),
			prompt:      fmt.Sprintf("%s logo with a bold call to action, clean background", brand),
		},
	)

	scenes := make([]sceneCandidate, 0, len(templates))
	for _, t := range templates {
		scenes = append(scenes, sceneCandidate{
			Title:       t.title,
			Description: t.description,
			Prompt:      t.prompt,
			VisualStyle: defaultVisualStyle(),
		})
	}

	return &planCandidate{
		Scenes: scenes,
		Narrative: &models.NarrativeStructure{
			Hook:         fmt.Sprintf("Open on a moment that makes %s impossible to ignore.", brand),
			Problem:      fmt.Sprintf("Show the gap %s exists to close.", brand),
			Solution:     fmt.Sprintf("Demonstrate how %s delivers.", brand),
			CallToAction: fmt.Sprintf("Invite the viewer to act with %s today.", brand),
		},
	}
}

// finalize is the post-processing pass that runs regardless of which stage
// produced the candidate. It enforces scene-count and duration bounds, mints
// fresh ids, renumbers scenes sequentially, and fills every missing section.
func (p *StoryboardParser) finalize(candidate *planCandidate, request models.StoryboardRequest) *models.StoryboardPlan {
	brand := brandName(request.Brand)
	target := request.TargetDuration

	sceneCandidates := candidate.Scenes
	if maxScenes := request.MaxScenes(); len(sceneCandidates) > maxScenes {
		sceneCandidates = sceneCandidates[:maxScenes]
	}
	sceneCount := len(sceneCandidates)

	scenes := make([]models.StoryboardScene, 0, sceneCount)
	for i, sc := range sceneCandidates {
		duration := int(sc.Duration)
		if sc.Duration <= 0 || duration > target {
			duration = target / sceneCount
		}
		if duration < 2 {
			duration = 2
		}

		title := strings.TrimSpace(sc.Title)
		if title == "" {
			title = fmt.Sprintf("Scene %d", i+1)
		}
		description := strings.TrimSpace(sc.Description)
		if description == "" {
			description = fmt.Sprintf("Scene %d of the %s advertisement.", i+1, brand)
		}
		prompt := strings.TrimSpace(sc.Prompt)
		if prompt == "" {
			prompt = fmt.Sprintf("%s: %s, professional advertising photography", brand, description)
		}
		style := defaultVisualStyle()
		if sc.VisualStyle != nil {
			style = sc.VisualStyle
		}

		scenes = append(scenes, models.StoryboardScene{
			ID:              newSceneID(i),
			SceneNumber:     i + 1,
			Title:           title,
			Description:     description,
			Duration:        duration,
			Prompt:          prompt,
			VisualStyle:     *style,
			GeneratedImages: []models.GeneratedImage{},
		})
	}

	NormalizeSceneDurations(scenes, target)

	plan := &models.StoryboardPlan{
		ID:                       newPlanID(),
		ProjectID:                request.ProjectID,
		Scenes:                   scenes,
		Narrative:                fillNarrative(candidate.Narrative, brand),
		PlatformOptimization:     fillPlatformOptimization(candidate.PlatformOptimization),
		AdvertisingEffectiveness: fillAdvertisingEffectiveness(candidate.AdvertisingEffectiveness, brand),
		VisualConsistency:        fillVisualConsistency(candidate.VisualConsistency, request.Brand),
		CreatedBy:                "marcus",
		CreatedAt:                time.Now(),
	}
	plan.RecomputeTotalDuration()

	return plan
}

// sanitizeJSONCandidate strips surrounding non-brace garbage, removes
// trailing commas, and collapses newlines so a nearly-valid object parses.
func sanitizeJSONCandidate(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ""
	}
	text = text[start : end+1]
	text = trailingCommaPattern.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}

func tryParseCandidate(jsonText string) *planCandidate {
	if jsonText == "" {
		return nil
	}
	var candidate planCandidate
	if err := json.Unmarshal([]byte(jsonText), &candidate); err != nil {
		return nil
	}
	if len(candidate.Scenes) == 0 || len(candidate.Scenes) > maxParsedScenes {
		return nil
	}
	return &candidate
}

// extractJSONValue finds `"key": <value>` in raw text and returns the
// balanced, string-aware value delimited by open/close, or "" when absent or
// unterminated.
func extractJSONValue(raw, key string, open, close byte) string {
	idx := strings.Index(raw, `"`+key+`"`)
	if idx == -1 {
		return ""
	}
	rest := raw[idx+len(key)+2:]

	colon := strings.IndexByte(rest, ':')
	if colon == -1 {
		return ""
	}
	rest = rest[colon+1:]

	start := strings.IndexByte(rest, open)
	if start == -1 {
		return ""
	}
	for _, r := range rest[:start] {
		if !unicode.IsSpace(r) {
			return ""
		}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(rest); i++ {
		ch := rest[i]
		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return rest[start : i+1]
			}
		}
	}
	return ""
}

// mineScenes walks the text line by line, starting a new scene at each
// "Scene N" heading or numbered list marker and accumulating the following
// prose as that scene's description.
func mineScenes(rawText string) []sceneCandidate {
	var scenes []sceneCandidate
	var current *sceneCandidate

	for _, line := range strings.Split(rawText, "\n") {
		if m := sceneMarkerPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				scenes = append(scenes, *current)
			}
			remainder := strings.TrimSpace(m[3])
			title := firstClause(remainder)
			if title == "" {
				title = fmt.Sprintf("Scene %d", len(scenes)+1)
			}
			current = &sceneCandidate{Title: title, Description: remainder}
			continue
		}
		if current == nil {
			continue
		}
		if text := strings.TrimSpace(line); text != "" {
			if current.Description != "" {
				current.Description += " "
			}
			current.Description += text
		}
	}
	if current != nil {
		scenes = append(scenes, *current)
	}
	return scenes
}

// mineNarrative pulls the first sentence mentioning each narrative beat.
// Best effort: a nil return means no beat keyword appeared at all.
func mineNarrative(rawText string) *models.NarrativeStructure {
	narrative := &models.NarrativeStructure{}
	found := false

	for _, sentence := range splitSentences(rawText) {
		lower := strings.ToLower(sentence)
		switch {
		case narrative.Hook == "" && strings.Contains(lower, "hook"):
			narrative.Hook = sentence
			found = true
		case narrative.Problem == "" && strings.Contains(lower, "problem"):
			narrative.Problem = sentence
			found = true
		case narrative.Solution == "" && strings.Contains(lower, "solution"):
			narrative.Solution = sentence
			found = true
		case narrative.CallToAction == "" && (strings.Contains(lower, "call to action") || strings.Contains(lower, "cta")):
			narrative.CallToAction = sentence
			found = true
		}
	}

	if !found {
		return nil
	}
	return narrative
}

func splitSentences(rawText string) []string {
	flat := strings.ReplaceAll(rawText, "\n", " ")
	parts := sentenceSplitPattern.Split(flat, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// firstClause returns the text up to the first sentence or clause boundary,
// used to derive a short title from mined prose.
func firstClause(text string) string {
	for i, r := range text {
		if r == '.' || r == ',' || r == ';' || r == '!' || r == '?' {
			return strings.TrimSpace(text[:i])
		}
	}
	return strings.TrimSpace(text)
}

func brandName(brand models.BrandInfo) string {
	if name := strings.TrimSpace(brand.Name); name != "" {
		return name
	}
	return "the brand"
}

func defaultVisualStyle() *models.VisualStyle {
	return &models.VisualStyle{
		Lighting:    "high-key studio",
		Mood:        "energetic",
		CameraAngle: "medium shot",
		Composition: "centered subject",
	}
}

func fillNarrative(narrative *models.NarrativeStructure, brand string) models.NarrativeStructure {
	result := models.NarrativeStructure{}
	if narrative != nil {
		result = *narrative
	}
	if result.Hook == "" {
		result.Hook = fmt.Sprintf("Open on a moment that makes %s impossible to ignore.", brand)
	}
	if result.Problem == "" {
		result.Problem = fmt.Sprintf("Show the gap %s exists to close.", brand)
	}
	if result.Solution == "" {
		result.Solution = fmt.Sprintf("Demonstrate how %s delivers.", brand)
	}
	if result.CallToAction == "" {
		result.CallToAction = fmt.Sprintf("Invite the viewer to act with %s today.", brand)
	}
	return result
}

func fillPlatformOptimization(opt *models.PlatformOptimization) models.PlatformOptimization {
	if opt != nil {
		return *opt
	}
	return models.PlatformOptimization{
		PrimaryPlatform: "instagram",
		AspectRatio:     "9:16",
		Pacing:          "fast",
	}
}

func fillAdvertisingEffectiveness(eff *models.AdvertisingEffectiveness, brand string) models.AdvertisingEffectiveness {
	if eff != nil {
		return *eff
	}
	return models.AdvertisingEffectiveness{
		HookStrategy:    "pattern interrupt in the first two seconds",
		EmotionalArc:    "curiosity building to confidence",
		Personalization: fmt.Sprintf("speaks directly to %s's core audience", brand),
		Shareability:    "memorable closing beat worth reposting",
		CTAPower:        "one clear action, stated once",
	}
}

func fillVisualConsistency(consistency *models.VisualConsistency, brand models.BrandInfo) models.VisualConsistency {
	if consistency != nil {
		return *consistency
	}
	return models.VisualConsistency{
		ColorPalette:         brand.ColorPalette,
		Style:                "cinematic realism",
		CinematographicTheme: "consistent framing and light across scenes",
	}
}

func newSceneID(index int) string {
	return fmt.Sprintf("scene_%d_%d_%s", time.Now().UnixNano(), index+1, uuid.NewString()[:8])
}

func newPlanID() string {
	return fmt.Sprintf("storyboard_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

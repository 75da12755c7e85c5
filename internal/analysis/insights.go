// Package analysis scores morning-pages text with keyword and regex heuristics.
package analysis

import "strings"

var moodDescriptions = map[string]string{
	"contemplative": "Your mind is wandering through reflection today",
	"urgent":        "There's pressing energy in your words",
	"joyful":        "Light is breaking through your writing",
	"melancholic":   "You're sitting with some weight today",
	"anxious":       "Uncertainty is moving through these pages",
	"determined":    "You're gathering momentum toward something",
	"curious":       "Questions are alive in you today",
	"peaceful":      "There's stillness in your words",
}

var themeDescriptions = map[string]string{
	"relationships": "People are on your mind",
	"work":          "Your labor and purpose are surfacing",
	"creativity":    "The maker in you is stirring",
	"time":          "You're navigating between then and now",
	"self":          "Identity questions are circling",
	"nature":        "The world outside is finding its way in",
	"home":          "Questions of belonging and place",
}

const (
	fallbackMoodInsight  = "Your emotional landscape is emerging"
	fallbackThemeInsight = "Themes are crystallizing"
)

// Insights turns a report into short reflective sentences.
func Insights(r Report) []string {
	insights := make([]string, 0, 3)
	if len(r.TopMoods) > 0 {
		insights = append(insights, describe(moodDescriptions, r.TopMoods[0], fallbackMoodInsight))
	}
	if len(r.TopThemes) > 0 {
		insights = append(insights, describe(themeDescriptions, r.TopThemes[0], fallbackThemeInsight))
	}
	if len(r.RepeatedWords) > 0 {
		words := make([]string, len(r.RepeatedWords))
		for i, rw := range r.RepeatedWords {
			words[i] = rw.Word
		}
		insights = append(insights, "Words you're circling: "+strings.Join(words, ", "))
	}
	return insights
}

func describe(table map[string]string, tag, fallback string) string {
	if d, ok := table[tag]; ok {
		return d
	}
	return fallback
}

type promptBand struct {
	below  int
	prompt string
}

// Bands are checked in ascending order; the last one has no upper bound.
var promptBands = []promptBand{
	{below: 200, prompt: "Keep going. Don't edit. Let the words fall."},
	{below: 500, prompt: "You're finding your rhythm. What haven't you said yet?"},
	{below: WordGoal, prompt: "Almost there. What's the thing you've been avoiding?"},
}

const finishedPrompt = "You made it. Read back the first and last paragraphs together."

// Prompts returns the writing prompt for the report's word count band.
func Prompts(r Report) []string {
	for _, band := range promptBands {
		if r.WordCount < band.below {
			return []string{band.prompt}
		}
	}
	return []string{finishedPrompt}
}

// Band classifies progress for display.
type Band string

// Progress bands.
const (
	BandLow      Band = "low"
	BandBuilding Band = "building"
	BandClose    Band = "close"
	BandComplete Band = "complete"
)

// BandFor maps a progress percentage to its band.
func BandFor(progress int) Band {
	switch {
	case progress < 33:
		return BandLow
	case progress < 66:
		return BandBuilding
	case progress < 100:
		return BandClose
	default:
		return BandComplete
	}
}

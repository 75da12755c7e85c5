// Package tui provides the Bubble Tea writing interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pages/internal/analysis"
)

const (
	craftNotesMinWords = 200
	maxCraftNotes      = 2
)

func (m *Model) panelLines(width int) []string {
	lines := []string{}
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, sectionStyle.Render(strings.ToUpper(title)))
	}
	para := func(text string, style lipgloss.Style) {
		lines = append(lines, wrapText(text, width, style)...)
	}

	r := m.report
	if r.WordCount >= m.journal.Goal() {
		lines = append(lines, wrapText("✓ You wrote your pages today.", width, completeStyle)...)
	}

	section("Stats")
	para(fmt.Sprintf("%d words · %d sentences", r.WordCount, r.SentenceCount), bodyStyle)
	para(fmt.Sprintf("avg sentence %d words · richness %d%%", r.AvgSentenceLength, r.VocabularyRichness), bodyStyle)

	section("Mood")
	para(tagList(r.TopMoods, "Keep writing to surface a mood."), bodyStyle)
	section("Themes")
	para(tagList(r.TopThemes, "No clear theme yet."), bodyStyle)

	section("Insights")
	insights := analysis.Insights(r)
	if len(insights) == 0 {
		para("Insights appear as you write.", mutedStyle)
	}
	for _, insight := range insights {
		para(insight, bodyStyle)
	}

	section("Prompt")
	for _, prompt := range analysis.Prompts(r) {
		para(prompt, accentStyle)
	}

	if r.WordCount >= craftNotesMinWords && len(r.Problems) > 0 {
		section("Craft notes")
		for i, p := range r.Problems {
			if i == maxCraftNotes {
				break
			}
			para(p.Name, titleStyle)
			para(p.Suggestion, mutedStyle)
		}
	}

	section("Feedback")
	lines = append(lines, m.feedbackLines(width)...)
	return lines
}

func (m *Model) feedbackLines(width int) []string {
	switch m.fbState {
	case feedbackLoading:
		return []string{m.spinner.View() + mutedStyle.Render(" Reading your pages...")}
	case feedbackFailed:
		return wrapText(m.fbNotice, width, errorStyle)
	case feedbackReady:
	default:
		return wrapText("Press ctrl+f for a coach's reading.", width, mutedStyle)
	}

	fb := m.fbResult
	lines := []string{}
	field := func(label, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		lines = append(lines, titleStyle.Render(label))
		lines = append(lines, wrapText(text, width, bodyStyle)...)
	}
	field("Voice", fb.VoiceObservation)
	field("Undercurrent", fb.EmotionalUndercurrent)
	field("Hidden strength", fb.HiddenStrength)
	if fb.PrimaryWeakness.Name != "" {
		field("Focus: "+fb.PrimaryWeakness.Name, fb.PrimaryWeakness.Observation)
		field("Tomorrow", fb.PrimaryWeakness.TomorrowFocus)
		field("Exercise", fb.PrimaryWeakness.MicroExercise)
	}
	if fb.SecondaryWeakness.Name != "" {
		field("Also: "+fb.SecondaryWeakness.Name, fb.SecondaryWeakness.QuickFix)
	}
	if fb.SentenceToRevise.Original != "" {
		field("Before", fb.SentenceToRevise.Original)
		field("After", fb.SentenceToRevise.Revised)
	}
	field("Sit with", fb.QuestionToSitWith)
	return lines
}

func tagList(tags []string, empty string) string {
	if len(tags) == 0 {
		return empty
	}
	return strings.Join(tags, ", ")
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

// Package main provides the CLI entrypoint for pages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/feedback"
	"github.com/verte-zerg/pages/internal/history"
	"github.com/verte-zerg/pages/internal/model"
)

type analysisOutput struct {
	analysis.Report `yaml:",inline"`
	Insights        []string `json:"insights" yaml:"insights"`
	Prompts         []string `json:"prompts" yaml:"prompts"`
}

func newAnalysisOutput(r analysis.Report) analysisOutput {
	return analysisOutput{
		Report:   r,
		Insights: analysis.Insights(r),
		Prompts:  analysis.Prompts(r),
	}
}

func writeAnalysis(w io.Writer, format string, r analysis.Report) error {
	out := newAnalysisOutput(r)
	switch format {
	case "json":
		return writeJSON(w, out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return writeAnalysisText(w, out)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeAnalysisText(w io.Writer, out analysisOutput) error {
	r := out.Report
	lines := []string{
		fmt.Sprintf("Words: %d (%d%% of %d)", r.WordCount, r.Progress, analysis.WordGoal),
		fmt.Sprintf("Sentences: %d, avg %d words", r.SentenceCount, r.AvgSentenceLength),
		fmt.Sprintf("Vocabulary richness: %d%%", r.VocabularyRichness),
		fmt.Sprintf("Moods: %s", joinOrDash(r.TopMoods)),
		fmt.Sprintf("Themes: %s", joinOrDash(r.TopThemes)),
	}
	if len(r.RepeatedWords) > 0 {
		words := make([]string, 0, len(r.RepeatedWords))
		for _, rw := range r.RepeatedWords {
			words = append(words, fmt.Sprintf("%s (%d)", rw.Word, rw.Count))
		}
		lines = append(lines, "Repeated: "+strings.Join(words, ", "))
	}
	if len(r.Problems) > 0 {
		lines = append(lines, "", "Craft notes")
		for _, p := range r.Problems {
			lines = append(lines,
				"- "+p.Name+": "+p.Description,
				"  Try: "+p.Suggestion,
				"  Exercise: "+p.Exercise,
			)
		}
	}
	if len(out.Insights) > 0 {
		lines = append(lines, "", "Insights")
		for _, insight := range out.Insights {
			lines = append(lines, "- "+insight)
		}
	}
	lines = append(lines, "", "Prompt")
	for _, prompt := range out.Prompts {
		lines = append(lines, "- "+prompt)
	}
	return writeLines(w, lines)
}

func writeFeedbackText(w io.Writer, fb feedback.Feedback) error {
	lines := []string{}
	field := func(label, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		lines = append(lines, label+": "+text)
	}
	field("Voice", fb.VoiceObservation)
	field("Undercurrent", fb.EmotionalUndercurrent)
	field("Hidden strength", fb.HiddenStrength)
	if fb.PrimaryWeakness.Name != "" {
		lines = append(lines, "", "Focus: "+fb.PrimaryWeakness.Name)
		field("  Observation", fb.PrimaryWeakness.Observation)
		field("  Why it matters", fb.PrimaryWeakness.WhyItMatters)
		field("  Tomorrow", fb.PrimaryWeakness.TomorrowFocus)
		field("  Exercise", fb.PrimaryWeakness.MicroExercise)
	}
	if fb.SecondaryWeakness.Name != "" {
		lines = append(lines, "", "Also: "+fb.SecondaryWeakness.Name)
		field("  Observation", fb.SecondaryWeakness.Observation)
		field("  Quick fix", fb.SecondaryWeakness.QuickFix)
	}
	if fb.SentenceToRevise.Original != "" {
		lines = append(lines, "", "Revision")
		field("  Before", fb.SentenceToRevise.Original)
		field("  After", fb.SentenceToRevise.Revised)
		field("  Principle", fb.SentenceToRevise.Principle)
	}
	if fb.QuestionToSitWith != "" {
		lines = append(lines, "")
		field("Sit with", fb.QuestionToSitWith)
	}
	return writeLines(w, lines)
}

func writeStatsPlain(ctx context.Context, w io.Writer, src history.Source, cfg model.StatsConfig) error {
	report, err := history.Build(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to build history: %w", err)
	}
	if err := history.RenderSummary(w, report); err != nil {
		return err
	}
	if err := history.RenderCalendar(w, report.Calendar); err != nil {
		return err
	}
	return history.RenderEntries(w, report.Entries)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

// Package history summarizes past drafts and the writing streak.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/journal"
	"github.com/verte-zerg/pages/internal/model"
)

// Source is the journal view history reads from.
type Source interface {
	Days(ctx context.Context) ([]string, error)
	Draft(ctx context.Context, day string) (string, bool, error)
	Streak(ctx context.Context) (model.StreakRecord, error)
	CurrentStreak(ctx context.Context) (int, error)
	Last30Days(ctx context.Context) ([]model.CalendarDay, error)
}

var _ Source = (*journal.Journal)(nil)

// Report contains precomputed data for history rendering.
type Report struct {
	Streak        model.StreakRecord
	CurrentStreak int
	Entries       []model.DayEntry
	Calendar      []model.CalendarDay
	Window        int
}

// Build loads every stored day, analyzes it and applies cfg filters.
func Build(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	rec, err := src.Streak(ctx)
	if err != nil {
		return Report{}, err
	}
	current, err := src.CurrentStreak(ctx)
	if err != nil {
		return Report{}, err
	}
	calendar, err := src.Last30Days(ctx)
	if err != nil {
		return Report{}, err
	}
	days, err := src.Days(ctx)
	if err != nil {
		return Report{}, err
	}

	entries := make([]model.DayEntry, 0, len(days))
	for _, day := range days {
		date, err := journal.ParseDay(day)
		if err != nil {
			// Keys written by hand or by older builds are skipped.
			continue
		}
		if cfg.Since != nil && date.Before(startOfDay(*cfg.Since)) {
			continue
		}
		text, ok, err := src.Draft(ctx, day)
		if err != nil {
			return Report{}, fmt.Errorf("failed to load entry %s: %w", day, err)
		}
		if !ok {
			continue
		}
		entries = append(entries, entryFor(day, date, text, rec))
	}
	if cfg.Last > 0 && len(entries) > cfg.Last {
		entries = entries[len(entries)-cfg.Last:]
	}

	return Report{
		Streak:        rec,
		CurrentStreak: current,
		Entries:       entries,
		Calendar:      calendar,
		Window:        cfg.Window,
	}, nil
}

func entryFor(day string, date time.Time, text string, rec model.StreakRecord) model.DayEntry {
	r := analysis.Analyze(text)
	entry := model.DayEntry{
		Day:       day,
		Date:      date,
		Words:     r.WordCount,
		Progress:  r.Progress,
		Completed: rec.Completed(day),
	}
	if len(r.TopMoods) > 0 {
		entry.TopMood = r.TopMoods[0]
	}
	if len(r.TopThemes) > 0 {
		entry.TopTheme = r.TopThemes[0]
	}
	return entry
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WordSeries returns the word count of each entry in order.
func WordSeries(entries []model.DayEntry) []float64 {
	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Words)
	}
	return values
}

// Totals aggregates entry word counts.
type Totals struct {
	Entries  int
	Words    int
	Average  float64
	BestDay  string
	BestWord int
}

// Summarize computes Totals for entries.
func Summarize(entries []model.DayEntry) Totals {
	var t Totals
	for _, e := range entries {
		t.Entries++
		t.Words += e.Words
		if e.Words > t.BestWord {
			t.BestWord = e.Words
			t.BestDay = e.Day
		}
	}
	if t.Entries > 0 {
		t.Average = float64(t.Words) / float64(t.Entries)
	}
	return t
}

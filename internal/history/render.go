// Package history summarizes past drafts and the writing streak.
package history

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/pages/internal/model"
)

// Calendar cell glyphs.
const (
	CellDone    = "●"
	CellMissed  = "·"
	CellPending = "○"
)

// RenderSummary prints streak and word totals.
func RenderSummary(w io.Writer, r Report) error {
	totals := Summarize(r.Entries)
	lines := []string{
		"Summary",
		fmt.Sprintf("Current streak: %s", plural(r.CurrentStreak, "day")),
		fmt.Sprintf("Longest streak: %s", plural(r.Streak.LongestStreak, "day")),
		fmt.Sprintf("Completed days: %d", r.Streak.TotalDays),
		fmt.Sprintf("Words on completed days: %d", r.Streak.TotalWords),
		fmt.Sprintf("Entries: %d", totals.Entries),
	}
	if totals.Entries > 0 {
		lines = append(lines,
			fmt.Sprintf("Avg words: %.0f", totals.Average),
			fmt.Sprintf("Best day: %s (%d words)", totals.BestDay, totals.BestWord),
		)
	}
	if len(r.Entries) > 1 {
		trend := MovingAverage(WordSeries(r.Entries), r.Window)
		lines = append(lines, "Trend: "+Sparkline(trend))
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderEntries prints one row per stored day.
func RenderEntries(w io.Writer, entries []model.DayEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}
	headers := []string{"Day", "Words", "Progress", "Mood", "Theme", "Done"}
	rows := EntryRows(entries)
	lines := append([]string{"Entries"}, formatTable(headers, rows, map[int]bool{1: true, 2: true})...)
	lines = append(lines, "")
	return writeLines(w, lines)
}

// EntryRows formats entries as table cells, newest first.
func EntryRows(entries []model.DayEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		done := ""
		if e.Completed {
			done = "yes"
		}
		rows = append(rows, []string{
			e.Day,
			fmt.Sprintf("%d", e.Words),
			fmt.Sprintf("%d%%", e.Progress),
			orDash(e.TopMood),
			orDash(e.TopTheme),
			done,
		})
	}
	return rows
}

// CalendarStrip renders one glyph per day.
func CalendarStrip(days []model.CalendarDay) string {
	var b strings.Builder
	for _, d := range days {
		switch {
		case d.Completed:
			b.WriteString(CellDone)
		case d.IsToday:
			b.WriteString(CellPending)
		default:
			b.WriteString(CellMissed)
		}
	}
	return b.String()
}

// RenderCalendar prints the 30-day strip with its date range.
func RenderCalendar(w io.Writer, days []model.CalendarDay) error {
	if len(days) == 0 {
		return nil
	}
	done := 0
	for _, d := range days {
		if d.Completed {
			done++
		}
	}
	first, last := days[0].Date, days[len(days)-1].Date
	return writeLines(w, []string{
		fmt.Sprintf("Last %d days (%s to %s)", len(days), first.Format("Jan 2"), last.Format("Jan 2")),
		CalendarStrip(days),
		fmt.Sprintf("%d of %d days completed", done, len(days)),
		"",
	})
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

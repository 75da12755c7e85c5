// Package model defines shared data structures.
package model

import "time"

// DayLayout is the format of day keys.
const DayLayout = "2006-01-02"

// EditorConfig defines editor settings.
type EditorConfig struct {
	ShowPanel bool
	Goal      int
}

// FeedbackConfig defines the LLM collaborator settings.
type FeedbackConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxTokens   int
	RateSeconds float64
}

// StatsConfig defines filters and options for history output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}

// StreakRecord is the persisted streak summary.
type StreakRecord struct {
	CurrentStreak int      `json:"currentStreak"`
	LongestStreak int      `json:"longestStreak"`
	CompletedDays []string `json:"completedDays"`
	TotalWords    int      `json:"totalWords"`
	TotalDays     int      `json:"totalDays"`
}

// Completed reports whether day is in the completed list.
func (r StreakRecord) Completed(day string) bool {
	for _, d := range r.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}

// DayEntry summarizes one stored draft.
type DayEntry struct {
	Day       string
	Date      time.Time
	Words     int
	Progress  int
	TopMood   string
	TopTheme  string
	Completed bool
}

// CalendarDay is one cell of the 30-day strip.
type CalendarDay struct {
	Day       string
	Date      time.Time
	Completed bool
	IsToday   bool
}

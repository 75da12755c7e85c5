// Package journal keeps one draft per day and the writing streak.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/log"
	"github.com/verte-zerg/pages/internal/model"
)

// Storage keys.
const (
	DayPrefix = "pages/day/"
	StreakKey = "pages/streak"
)

const (
	streakLookback = 365
	calendarDays   = 30
)

// KV is the string key-value storage the journal writes through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// stamper is implemented by stores that track write times.
type stamper interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// Journal reads and writes day drafts and the streak record.
type Journal struct {
	kv   KV
	now  func() time.Time
	goal int
	log  *log.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides the clock used to pick "today".
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithGoal overrides the word count that completes a day.
func WithGoal(words int) Option {
	return func(j *Journal) {
		if words > 0 {
			j.goal = words
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(j *Journal) { j.log = l }
}

// New returns a journal over kv.
func New(kv KV, opts ...Option) *Journal {
	j := &Journal{kv: kv, now: time.Now, goal: analysis.WordGoal}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// DayKey formats t as a day key in t's location.
func DayKey(t time.Time) string {
	return t.Format(model.DayLayout)
}

// ParseDay parses a day key in the local time zone.
func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(model.DayLayout, day, time.Local)
}

// Today returns the current day key.
func (j *Journal) Today() string {
	return DayKey(j.now())
}

// Goal returns the completion threshold in words.
func (j *Journal) Goal() int {
	return j.goal
}

// SaveDraft stores text as today's draft.
func (j *Journal) SaveDraft(ctx context.Context, text string) error {
	if err := j.kv.Set(ctx, DayPrefix+j.Today(), text); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadDraft returns today's draft, or "" when none exists.
func (j *Journal) LoadDraft(ctx context.Context) (string, error) {
	text, _, err := j.Draft(ctx, j.Today())
	return text, err
}

// SavedAt returns when today's draft was last written, in local time.
// It reports false when there is no draft or the store keeps no times.
func (j *Journal) SavedAt(ctx context.Context) (time.Time, bool, error) {
	st, ok := j.kv.(stamper)
	if !ok {
		return time.Time{}, false, nil
	}
	at, found, err := st.UpdatedAt(ctx, DayPrefix+j.Today())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read draft time: %w", err)
	}
	if !found {
		return time.Time{}, false, nil
	}
	return at.Local(), true, nil
}

// Draft returns the draft stored for day.
func (j *Journal) Draft(ctx context.Context, day string) (string, bool, error) {
	text, ok, err := j.kv.Get(ctx, DayPrefix+day)
	if err != nil {
		return "", false, fmt.Errorf("failed to load draft %s: %w", day, err)
	}
	return text, ok, nil
}

// Days lists every day with a stored draft, oldest first.
func (j *Journal) Days(ctx context.Context) ([]string, error) {
	keys, err := j.kv.Keys(ctx, DayPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	days := make([]string, 0, len(keys))
	for _, key := range keys {
		days = append(days, strings.TrimPrefix(key, DayPrefix))
	}
	return days, nil
}

// Streak loads the streak record. A corrupt record reads as empty.
func (j *Journal) Streak(ctx context.Context) (model.StreakRecord, error) {
	raw, ok, err := j.kv.Get(ctx, StreakKey)
	if err != nil {
		return emptyStreak(), fmt.Errorf("failed to load streak: %w", err)
	}
	if !ok {
		return emptyStreak(), nil
	}
	var rec model.StreakRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		j.log.Printf("journal: ignoring corrupt streak record: %v", err)
		return emptyStreak(), nil
	}
	if rec.CompletedDays == nil {
		rec.CompletedDays = []string{}
	}
	return rec, nil
}

// RecordCompletion marks today complete with the given word count.
// Completing an already completed day changes nothing.
func (j *Journal) RecordCompletion(ctx context.Context, words int) (model.StreakRecord, error) {
	rec, err := j.Streak(ctx)
	if err != nil {
		return rec, err
	}
	now := j.now()
	today := DayKey(now)
	if rec.Completed(today) {
		return rec, nil
	}

	rec.CompletedDays = append(rec.CompletedDays, today)
	rec.TotalDays++
	rec.TotalWords += words
	if rec.Completed(DayKey(now.AddDate(0, 0, -1))) || rec.CurrentStreak == 0 {
		rec.CurrentStreak++
	} else {
		rec.CurrentStreak = 1
	}
	if rec.CurrentStreak > rec.LongestStreak {
		rec.LongestStreak = rec.CurrentStreak
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("failed to encode streak: %w", err)
	}
	if err := j.kv.Set(ctx, StreakKey, string(data)); err != nil {
		return rec, fmt.Errorf("failed to save streak: %w", err)
	}
	j.log.Printf("journal: completed %s with %d words, streak %d", today, words, rec.CurrentStreak)
	return rec, nil
}

// CurrentStreak counts consecutive completed days ending today. An
// unfinished today does not break the run.
func (j *Journal) CurrentStreak(ctx context.Context) (int, error) {
	rec, err := j.Streak(ctx)
	if err != nil {
		return 0, err
	}
	return countStreak(rec, j.now()), nil
}

func countStreak(rec model.StreakRecord, now time.Time) int {
	streak := 0
	for i := 0; i < streakLookback; i++ {
		if rec.Completed(DayKey(now.AddDate(0, 0, -i))) {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}
	return streak
}

// Last30Days returns the calendar strip ending today, oldest first.
func (j *Journal) Last30Days(ctx context.Context) ([]model.CalendarDay, error) {
	rec, err := j.Streak(ctx)
	if err != nil {
		return nil, err
	}
	return calendar(rec, j.now()), nil
}

func calendar(rec model.StreakRecord, now time.Time) []model.CalendarDay {
	days := make([]model.CalendarDay, 0, calendarDays)
	for i := calendarDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		day := DayKey(date)
		days = append(days, model.CalendarDay{
			Day:       day,
			Date:      date,
			Completed: rec.Completed(day),
			IsToday:   i == 0,
		})
	}
	return days
}

// SyncResult describes the outcome of Sync.
type SyncResult struct {
	Words     int
	Completed bool
	Streak    model.StreakRecord
}

// Sync saves text as today's draft and records the completion the first
// time the draft reaches the goal.
func (j *Journal) Sync(ctx context.Context, text string) (SyncResult, error) {
	if err := j.SaveDraft(ctx, text); err != nil {
		return SyncResult{}, err
	}
	res := SyncResult{Words: analysis.WordCount(text)}
	rec, err := j.Streak(ctx)
	if err != nil {
		return res, err
	}
	res.Streak = rec
	if res.Words < j.goal || rec.Completed(j.Today()) {
		return res, nil
	}
	rec, err = j.RecordCompletion(ctx, res.Words)
	if err != nil {
		return res, err
	}
	res.Streak = rec
	res.Completed = true
	return res, nil
}

func emptyStreak() model.StreakRecord {
	return model.StreakRecord{CompletedDays: []string{}}
}

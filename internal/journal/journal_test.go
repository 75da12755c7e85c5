package journal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pages/internal/log"
	"github.com/verte-zerg/pages/internal/store"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	keys := []string{}
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ KV = (*memKV)(nil)
var _ KV = (*store.Store)(nil)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(days int) { c.t = c.t.AddDate(0, 0, days) }

func newTestJournal(t *testing.T) (*Journal, *memKV, *clock) {
	t.Helper()
	kv := newMemKV()
	c := &clock{t: time.Date(2024, 3, 10, 7, 0, 0, 0, time.Local)}
	return New(kv, WithClock(c.now)), kv, c
}

func TestDraftRoundTrip(t *testing.T) {
	j, kv, c := newTestJournal(t)
	ctx := context.Background()

	text, err := j.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", text)

	require.NoError(t, j.SaveDraft(ctx, "first pages"))
	assert.Equal(t, "first pages", kv.data["pages/day/2024-03-10"])

	text, err = j.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first pages", text)

	c.advance(1)
	text, err = j.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", text, "a new day starts blank")

	old, ok, err := j.Draft(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first pages", old)
}

func TestDaysSkipsStreakKey(t *testing.T) {
	j, _, c := newTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.SaveDraft(ctx, "a"))
	c.advance(2)
	require.NoError(t, j.SaveDraft(ctx, "b"))
	_, err := j.RecordCompletion(ctx, 800)
	require.NoError(t, err)

	days, err := j.Days(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-10", "2024-03-12"}, days)
}

func TestStreakDefaultsToEmpty(t *testing.T) {
	j, _, _ := newTestJournal(t)
	rec, err := j.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentStreak)
	assert.NotNil(t, rec.CompletedDays)
}

func TestCorruptStreakReadsEmpty(t *testing.T) {
	var buf bytes.Buffer
	kv := newMemKV()
	kv.data[StreakKey] = "{not json"
	j := New(kv, WithLogger(log.New(true, &buf)))

	rec, err := j.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rec.TotalDays)
	assert.Contains(t, buf.String(), "corrupt streak record")
}

func TestRecordCompletionConsecutiveDays(t *testing.T) {
	j, _, c := newTestJournal(t)
	ctx := context.Background()

	rec, err := j.RecordCompletion(ctx, 760)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 1, rec.LongestStreak)

	c.advance(1)
	rec, err = j.RecordCompletion(ctx, 800)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.CurrentStreak)
	assert.Equal(t, 2, rec.LongestStreak)
	assert.Equal(t, 2, rec.TotalDays)
	assert.Equal(t, 1560, rec.TotalWords)
	assert.Equal(t, []string{"2024-03-10", "2024-03-11"}, rec.CompletedDays)
}

func TestRecordCompletionIsIdempotentPerDay(t *testing.T) {
	j, _, _ := newTestJournal(t)
	ctx := context.Background()

	first, err := j.RecordCompletion(ctx, 760)
	require.NoError(t, err)
	second, err := j.RecordCompletion(ctx, 900)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecordCompletionAfterGapResets(t *testing.T) {
	j, _, c := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := j.RecordCompletion(ctx, 750)
		require.NoError(t, err)
		c.advance(1)
	}
	c.advance(1)
	rec, err := j.RecordCompletion(ctx, 750)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 3, rec.LongestStreak)
	assert.Equal(t, 4, rec.TotalDays)
}

func TestCurrentStreakToleratesUnfinishedToday(t *testing.T) {
	j, _, c := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := j.RecordCompletion(ctx, 750)
		require.NoError(t, err)
		c.advance(1)
	}

	streak, err := j.CurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, streak, "today is not written yet")

	c.advance(1)
	streak, err = j.CurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, streak, "yesterday missing breaks the run")
}

func TestLast30Days(t *testing.T) {
	j, _, c := newTestJournal(t)
	ctx := context.Background()

	c.advance(-5)
	_, err := j.RecordCompletion(ctx, 750)
	require.NoError(t, err)
	c.advance(5)
	_, err = j.RecordCompletion(ctx, 750)
	require.NoError(t, err)

	days, err := j.Last30Days(ctx)
	require.NoError(t, err)
	require.Len(t, days, 30)
	assert.Equal(t, "2024-02-10", days[0].Day)
	assert.Equal(t, "2024-03-10", days[29].Day)
	assert.True(t, days[29].IsToday)
	assert.True(t, days[29].Completed)
	assert.True(t, days[24].Completed)
	assert.False(t, days[25].Completed)
	for _, d := range days[:29] {
		assert.False(t, d.IsToday, d.Day)
	}
}

func TestSyncRecordsCompletionOnce(t *testing.T) {
	j, _, _ := newTestJournal(t)
	ctx := context.Background()

	res, err := j.Sync(ctx, strings.Repeat("word ", 749))
	require.NoError(t, err)
	assert.Equal(t, 749, res.Words)
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.Streak.TotalDays)

	res, err = j.Sync(ctx, strings.Repeat("word ", 750))
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.Streak.CurrentStreak)

	res, err = j.Sync(ctx, strings.Repeat("word ", 900))
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 750, res.Streak.TotalWords)

	text, err := j.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900, len(strings.Fields(text)))
}

func TestCustomGoal(t *testing.T) {
	kv := newMemKV()
	j := New(kv, WithGoal(10))
	res, err := j.Sync(context.Background(), strings.Repeat("w ", 10))
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 10, j.Goal())
}

func TestStorageErrorsAreWrapped(t *testing.T) {
	j, kv, _ := newTestJournal(t)
	boom := errors.New("disk full")
	kv.err = boom

	err := j.SaveDraft(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to save draft")

	_, err = j.Days(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestJournalOverSQLite(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	c := &clock{t: time.Date(2024, 1, 31, 8, 0, 0, 0, time.Local)}
	j := New(s, WithClock(c.now))
	ctx := context.Background()

	res, err := j.Sync(ctx, strings.Repeat("sky ", 760))
	require.NoError(t, err)
	assert.True(t, res.Completed)

	c.advance(1)
	res, err = j.Sync(ctx, strings.Repeat("sea ", 760))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak.CurrentStreak)

	days, err := j.Days(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-31", "2024-02-01"}, days)
}

func TestSavedAt(t *testing.T) {
	ctx := context.Background()

	mem, _, _ := newTestJournal(t)
	require.NoError(t, mem.SaveDraft(ctx, "no timestamps here"))
	_, ok, err := mem.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "memory store keeps no write times")

	s, err := store.Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	c := &clock{t: time.Date(2024, 1, 31, 8, 0, 0, 0, time.Local)}
	j := New(s, WithClock(c.now))

	_, ok, err = j.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no draft yet")

	before := time.Now().Add(-time.Second)
	require.NoError(t, j.SaveDraft(ctx, "morning"))
	at, ok, err := j.SavedAt(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, at.Before(before))
	assert.Equal(t, time.Local, at.Location())

	c.advance(1)
	_, ok, err = j.SavedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a new day has no draft")
}

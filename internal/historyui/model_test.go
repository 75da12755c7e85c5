package historyui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pages/internal/journal"
	"github.com/verte-zerg/pages/internal/model"
	"github.com/verte-zerg/pages/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})

	now := time.Date(2024, 3, 8, 7, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	j := journal.New(s, journal.WithClock(clock))
	ctx := context.Background()
	for _, words := range []int{760, 120, 800} {
		if _, err := j.Sync(ctx, strings.TrimSpace(strings.Repeat("calm ", words))); err != nil {
			t.Fatalf("sync: %v", err)
		}
		now = now.AddDate(0, 0, 1)
	}
	now = now.AddDate(0, 0, -1)
	return NewModel(j, model.StatsConfig{Window: 2})
}

func TestOverviewShowsCards(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	for _, want := range []string{"Overview", "Calendar", "Entries", "Current streak", "1 day", "Entries", "window=2", "Words per entry (window 2)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != 40 {
		t.Fatalf("expected 40 lines, got %d", lines)
	}
}

func TestEntriesTabListsNewestFirst(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabEntries {
		t.Fatalf("expected entries tab, got %d", m.activeTab)
	}

	body := m.renderBody()
	newest := strings.Index(body, "2024-03-10")
	oldest := strings.Index(body, "2024-03-08")
	if newest < 0 || oldest < 0 || newest > oldest {
		t.Fatalf("expected newest entry first:\n%s", body)
	}
	if !strings.Contains(body, "peaceful") {
		t.Fatalf("expected mood column:\n%s", body)
	}
}

func TestCalendarTab(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	body := m.renderBody()
	for _, want := range []string{"Feb 10 to Mar 10", "Mon  Tue", "2 of 30 days completed"} {
		if !strings.Contains(body, want) {
			t.Fatalf("calendar missing %q:\n%s", want, body)
		}
	}
}

func TestWindowKeysClamp(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	}
	if m.cfg.Window != minWindow {
		t.Fatalf("expected window %d, got %d", minWindow, m.cfg.Window)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.cfg.Window != 2 || m.report.Window != 2 {
		t.Fatalf("expected window 2, got %d", m.cfg.Window)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestCalendarRowsStartOnMonday(t *testing.T) {
	days := []model.CalendarDay{
		{Day: "2024-03-06", Date: time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local)},
		{Day: "2024-03-07", Date: time.Date(2024, 3, 7, 0, 0, 0, 0, time.Local), Completed: true},
	}
	out := renderCalendar(days)
	lines := strings.Split(out, "\n")
	if len(lines) < 4 {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
	row := lines[3]
	if !strings.HasPrefix(row, strings.Repeat(" ", 10)+"  6") {
		t.Fatalf("expected Wednesday offset, got %q", row)
	}
	if !strings.Contains(out, "1 of 2 days completed") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

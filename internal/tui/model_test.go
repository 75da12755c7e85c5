package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/feedback"
	"github.com/verte-zerg/pages/internal/journal"
	"github.com/verte-zerg/pages/internal/store"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(context.Context, feedback.Request) (string, error) {
	p.calls++
	return p.reply, p.err
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 7, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T, provider feedback.Provider) (*Model, *journal.Journal) {
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
	j := journal.New(s, journal.WithClock(fixedNow))
	cfg := feedback.DefaultConfig()
	cfg.RateSeconds = 0
	svc := feedback.NewService(provider, cfg, nil)
	m, err := NewModel(context.Background(), j, svc, Options{ShowPanel: true, Now: fixedNow})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m, j
}

func typeText(m *Model, text string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return cmd
}

func words(n int, word string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestTypingAnalyzesAndSaves(t *testing.T) {
	m, j := newTestModel(t, nil)
	typeText(m, "I am afraid of the deadline at work")

	if m.Text() != "I am afraid of the deadline at work" {
		t.Fatalf("unexpected text %q", m.Text())
	}
	if m.report.WordCount != 8 {
		t.Fatalf("expected 8 words, got %d", m.report.WordCount)
	}
	if len(m.report.TopMoods) == 0 || m.report.TopMoods[0] != "anxious" {
		t.Fatalf("expected anxious mood, got %v", m.report.TopMoods)
	}
	draft, err := j.LoadDraft(context.Background())
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if draft != m.Text() {
		t.Fatalf("expected autosaved draft, got %q", draft)
	}
	if !strings.Contains(m.renderHeader(), "saved 07:00:00") {
		t.Fatalf("header missing save time: %s", m.renderHeader())
	}
}

func TestReachingGoalRecordsStreak(t *testing.T) {
	m, j := newTestModel(t, nil)
	typeText(m, words(750, "light"))

	if !m.completed {
		t.Fatalf("expected day to be complete")
	}
	if m.currentStreak != 1 {
		t.Fatalf("expected streak 1, got %d", m.currentStreak)
	}
	rec, err := j.Streak(context.Background())
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if rec.TotalWords != 750 || rec.TotalDays != 1 {
		t.Fatalf("unexpected streak record %+v", rec)
	}
	header := m.renderHeader()
	if !containsAll(header, []string{"1 day streak", "✓ complete"}) {
		t.Fatalf("header missing completion: %s", header)
	}
	if !strings.Contains(strings.Join(m.panelLines(60), "\n"), "You wrote your pages today") {
		t.Fatalf("expected completion banner in panel")
	}
}

func TestProgressBandMatchesReport(t *testing.T) {
	cases := []struct {
		words int
		band  analysis.Band
	}{
		{247, analysis.BandBuilding},
		{492, analysis.BandClose},
		{747, analysis.BandComplete},
	}
	for _, tc := range cases {
		m, _ := newTestModel(t, nil)
		typeText(m, words(tc.words, "light"))

		if got := m.progress(); got != m.report.Progress {
			t.Fatalf("words=%d: editor progress %d, report %d", tc.words, got, m.report.Progress)
		}
		if got := analysis.BandFor(m.progress()); got != tc.band {
			t.Fatalf("words=%d: expected band %v, got %v", tc.words, tc.band, got)
		}
		if m.bar.FullColor != bandColors[tc.band] {
			t.Fatalf("words=%d: expected bar colour %s, got %s", tc.words, bandColors[tc.band], m.bar.FullColor)
		}
	}
}

func TestReopeningLoadsDraft(t *testing.T) {
	m, j := newTestModel(t, nil)
	typeText(m, "yesterday I walked")

	again, err := NewModel(context.Background(), j, nil, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if again.Text() != "yesterday I walked" || again.report.WordCount != 3 {
		t.Fatalf("expected draft to load, got %q", again.Text())
	}
	if again.savedAt.IsZero() {
		t.Fatalf("expected saved time from the stored draft")
	}
	if header := again.renderHeader(); !strings.Contains(header, "saved "+again.savedAt.Format("15:04:05")) {
		t.Fatalf("header missing saved time: %s", header)
	}

	fresh, _ := newTestModel(t, nil)
	if !fresh.savedAt.IsZero() {
		t.Fatalf("expected no saved time without a draft")
	}
}

func TestCtrlATogglesPanel(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.showPanel {
		t.Fatalf("expected panel hidden")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if !m.showPanel {
		t.Fatalf("expected panel shown")
	}
	if m.Text() != "" {
		t.Fatalf("toggle should not edit text, got %q", m.Text())
	}
}

func TestFeedbackNeedsMoreWords(t *testing.T) {
	provider := &stubProvider{}
	m, _ := newTestModel(t, provider)
	typeText(m, "only two")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if cmd != nil {
		t.Fatalf("expected no request below the minimum")
	}
	if m.fbNotice != "Need 198 more words" {
		t.Fatalf("unexpected notice %q", m.fbNotice)
	}
	if provider.calls != 0 {
		t.Fatalf("provider should not be called")
	}
}

func TestFeedbackDisabled(t *testing.T) {
	m, _ := newTestModel(t, nil)
	typeText(m, words(220, "river"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if cmd != nil {
		t.Fatalf("expected no request when feedback is off")
	}
	if !strings.Contains(m.fbNotice, "Feedback is off") {
		t.Fatalf("unexpected notice %q", m.fbNotice)
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	provider := &stubProvider{reply: "```json\n" + `{"voiceObservation":"Steady and plain.","questionToSitWith":"What are you circling?"}` + "\n```"}
	m, _ := newTestModel(t, provider)
	typeText(m, words(220, "river"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if cmd == nil {
		t.Fatalf("expected a feedback command")
	}
	if m.fbState != feedbackLoading {
		t.Fatalf("expected loading state")
	}

	msg := fetchFeedback(context.Background(), m.feedback, m.Text(), time.Second, m.fbSeq)()
	m.Update(msg)
	if m.fbState != feedbackReady {
		t.Fatalf("expected ready state, got %v (%s)", m.fbState, m.fbNotice)
	}
	panel := strings.Join(m.panelLines(60), "\n")
	if !containsAll(panel, []string{"Steady and plain.", "What are you circling?"}) {
		t.Fatalf("panel missing feedback:\n%s", panel)
	}
}

func TestStaleFeedbackIgnored(t *testing.T) {
	m, _ := newTestModel(t, &stubProvider{})
	m.fbState = feedbackLoading
	m.fbSeq = 2
	m.Update(feedbackMsg{seq: 1, err: errors.New("late")})
	if m.fbState != feedbackLoading {
		t.Fatalf("stale reply should be ignored")
	}
}

func TestFeedbackFailureNotice(t *testing.T) {
	m, _ := newTestModel(t, &stubProvider{})
	m.fbState = feedbackLoading
	m.fbSeq = 1
	m.Update(feedbackMsg{seq: 1, err: feedback.ErrFailed})
	if m.fbState != feedbackFailed || m.fbNotice != "Analysis failed, please try again" {
		t.Fatalf("unexpected state %v %q", m.fbState, m.fbNotice)
	}
}

func TestCraftNotesNeedEnoughWords(t *testing.T) {
	m, _ := newTestModel(t, nil)
	typeText(m, strings.TrimSpace(strings.Repeat("It was painted by a man, really. ", 6)))
	if strings.Contains(strings.Join(m.panelLines(60), "\n"), "CRAFT NOTES") {
		t.Fatalf("craft notes should wait for 200 words")
	}

	m.setText(strings.TrimSpace(strings.Repeat("It was painted by a man, really. ", 30)))
	panel := strings.Join(m.panelLines(60), "\n")
	if !containsAll(panel, []string{"CRAFT NOTES", "Passive Voice Overuse"}) {
		t.Fatalf("expected craft notes:\n%s", panel)
	}
}

func TestViewFillsWindow(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	typeText(m, "morning")

	view := m.View()
	if lines := strings.Count(view, "\n") + 1; lines != 30 {
		t.Fatalf("expected 30 lines, got %d", lines)
	}
	if !containsAll(view, []string{"Morning Pages", "Sunday, March 10, 2024", "1 / 750 words", "ctrl+f feedback"}) {
		t.Fatalf("view missing chrome:\n%s", view)
	}
}

func TestEscQuits(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if m.ctx.Err() == nil {
		t.Fatalf("expected context to be cancelled")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

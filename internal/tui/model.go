// Package tui provides the Bubble Tea writing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/feedback"
	"github.com/verte-zerg/pages/internal/journal"
)

const (
	panelRatio     = 0.38
	minPanelWidth  = 28
	minEditorWidth = 30
	chromeHeight   = 3
)

type feedbackState int

const (
	feedbackIdle feedbackState = iota
	feedbackLoading
	feedbackReady
	feedbackFailed
)

type feedbackMsg struct {
	seq    int
	result feedback.Feedback
	err    error
}

// Options tune the editor.
type Options struct {
	ShowPanel bool
	Timeout   time.Duration
	Now       func() time.Time
}

// Model implements the Bubble Tea morning-pages editor.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	journal  *journal.Journal
	feedback *feedback.Service
	timeout  time.Duration
	now      func() time.Time

	editor  textarea.Model
	bar     progress.Model
	spinner spinner.Model
	panel   viewport.Model

	width     int
	height    int
	showPanel bool

	text          string
	report        analysis.Report
	currentStreak int
	completed     bool
	savedAt       time.Time
	errMsg        string

	fbState  feedbackState
	fbSeq    int
	fbResult feedback.Feedback
	fbNotice string
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	bodyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#27AE60")).Bold(true)
	panelStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).
			BorderForeground(lipgloss.Color("#3A3A3A")).PaddingLeft(1)
)

var bandColors = map[analysis.Band]string{
	analysis.BandLow:      "#E74C3C",
	analysis.BandBuilding: "#F39C12",
	analysis.BandClose:    "#27AE60",
	analysis.BandComplete: "#9B59B6",
}

// NewModel loads today's draft and streak and builds the editor.
func NewModel(ctx context.Context, j *journal.Journal, svc *feedback.Service, opts Options) (*Model, error) {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:       ctx,
		cancel:    cancel,
		journal:   j,
		feedback:  svc,
		timeout:   opts.Timeout,
		now:       opts.Now,
		showPanel: opts.ShowPanel,
		panel:     viewport.New(0, 0),
	}
	if m.now == nil {
		m.now = time.Now
	}

	text, err := j.LoadDraft(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	streak, err := j.CurrentStreak(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	rec, err := j.Streak(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	savedAt, ok, err := j.SavedAt(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	if ok {
		m.savedAt = savedAt
	}
	m.currentStreak = streak
	m.completed = rec.Completed(j.Today())

	m.editor = newEditor()
	m.editor.SetValue(text)
	m.bar = progress.New(progress.WithSolidFill(bandColors[analysis.BandLow]), progress.WithoutPercentage())
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))
	m.setText(text)
	return m, nil
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Start writing. Don't stop. Don't edit. Just let it flow..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()
	return ta
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case feedbackMsg:
		m.handleFeedback(msg)
		return m, nil
	case spinner.TickMsg:
		if m.fbState != feedbackLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "ctrl+a":
			m.showPanel = !m.showPanel
			m.updateLayout()
			return m, nil
		case "ctrl+f":
			return m, m.requestFeedback()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if value := m.editor.Value(); value != m.text {
		m.setText(value)
		m.save()
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderHeader()
	if m.width == 0 || m.height == 0 {
		return header + "\n" + m.editor.View()
	}
	body := m.editor.View()
	if m.panelVisible() {
		m.panel.SetContent(strings.Join(m.panelLines(m.panelInnerWidth()), "\n"))
		side := panelStyle.Render(m.panel.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", side)
	}
	bodyHeight := m.height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return strings.Join([]string{
		fitLines(header, m.width, 1),
		fitLines(m.renderProgress(), m.width, 1),
		fitLines(body, m.width, bodyHeight),
		fitLines(m.renderFooter(), m.width, 1),
	}, "\n")
}

// Text returns the current draft.
func (m *Model) Text() string {
	return m.text
}

func (m *Model) setText(text string) {
	m.text = text
	m.report = analysis.Analyze(text)
	m.bar.FullColor = bandColors[analysis.BandFor(m.progress())]
}

// progress is the share of the journal goal written, capped at 100.
func (m *Model) progress() int {
	return analysis.Percent(m.report.WordCount, m.journal.Goal())
}

func (m *Model) save() {
	if m.text == "" {
		return
	}
	res, err := m.journal.Sync(m.ctx, m.text)
	if err != nil {
		m.errMsg = err.Error()
		logErrf("failed to save draft: %v\n", err)
		return
	}
	m.errMsg = ""
	m.savedAt = m.now()
	if res.Completed || res.Streak.Completed(m.journal.Today()) {
		m.completed = true
	}
	if res.Completed {
		streak, err := m.journal.CurrentStreak(m.ctx)
		if err != nil {
			logErrf("failed to load streak: %v\n", err)
			return
		}
		m.currentStreak = streak
	}
}

func (m *Model) requestFeedback() tea.Cmd {
	if m.fbState == feedbackLoading {
		return nil
	}
	m.showPanel = true
	m.updateLayout()
	if need := feedback.NeedMoreWords(m.report.WordCount); need > 0 {
		m.fbState = feedbackFailed
		m.fbNotice = fmt.Sprintf("Need %d more words", need)
		return nil
	}
	if !m.feedback.Enabled() {
		m.fbState = feedbackFailed
		m.fbNotice = feedbackError(feedback.ErrDisabled)
		return nil
	}
	m.fbSeq++
	m.fbState = feedbackLoading
	m.fbNotice = ""
	return tea.Batch(m.spinner.Tick, fetchFeedback(m.ctx, m.feedback, m.text, m.timeout, m.fbSeq))
}

func fetchFeedback(ctx context.Context, svc *feedback.Service, text string, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result, err := svc.Analyze(ctx, text)
		return feedbackMsg{seq: seq, result: result, err: err}
	}
}

func (m *Model) handleFeedback(msg feedbackMsg) {
	if msg.seq != m.fbSeq || m.fbState != feedbackLoading {
		return
	}
	if msg.err != nil {
		m.fbState = feedbackFailed
		m.fbNotice = feedbackError(msg.err)
		return
	}
	m.fbState = feedbackReady
	m.fbResult = msg.result
	m.panel.GotoTop()
}

func feedbackError(err error) string {
	switch {
	case errors.Is(err, feedback.ErrTooShort):
		return feedback.ErrTooShort.Error()
	case errors.Is(err, feedback.ErrDisabled):
		return "Feedback is off. Set [feedback] provider in the config."
	case errors.Is(err, context.DeadlineExceeded):
		return "Feedback timed out, please try again"
	default:
		return "Analysis failed, please try again"
	}
}

func (m *Model) panelVisible() bool {
	return m.showPanel && m.width >= minEditorWidth+minPanelWidth
}

func (m *Model) panelWidth() int {
	width := int(float64(m.width) * panelRatio)
	if width < minPanelWidth {
		width = minPanelWidth
	}
	return width
}

func (m *Model) panelInnerWidth() int {
	return maxInt(1, m.panelWidth()-panelStyle.GetHorizontalFrameSize())
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := maxInt(1, m.height-chromeHeight)
	editorWidth := m.width
	if m.panelVisible() {
		editorWidth = m.width - m.panelWidth() - 1
		m.panel.Width = m.panelInnerWidth()
		m.panel.Height = bodyHeight
	}
	m.editor.SetWidth(maxInt(1, editorWidth))
	m.editor.SetHeight(bodyHeight)
	m.bar.Width = maxInt(10, m.width/3)
}

func (m *Model) renderHeader() string {
	left := titleStyle.Render("Morning Pages") + mutedStyle.Render("  "+m.now().Format("Monday, January 2, 2006"))
	segments := []string{accentStyle.Render(fmt.Sprintf("%d day streak", m.currentStreak))}
	if m.completed {
		segments = append(segments, completeStyle.Render("✓ complete"))
	}
	if !m.savedAt.IsZero() {
		segments = append(segments, mutedStyle.Render("saved "+m.savedAt.Format("15:04:05")))
	}
	right := strings.Join(segments, "  ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderProgress() string {
	pct := float64(m.progress()) / 100
	counter := fmt.Sprintf("%d / %d words", m.report.WordCount, m.journal.Goal())
	return m.bar.ViewAs(pct) + "  " + mutedStyle.Render(counter)
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	hints := []string{"ctrl+a panel", "ctrl+f feedback", "pgup/pgdown scroll panel", "esc quit"}
	return footerStyle.Render(strings.Join(hints, " · "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

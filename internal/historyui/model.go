// Package historyui provides the Bubble Tea history interface.
package historyui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pages/internal/history"
	"github.com/verte-zerg/pages/internal/model"
)

const (
	tabOverview = iota
	tabCalendar
	tabEntries
)

const (
	minWindow = 1
	maxWindow = 30
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#27AE60"))
	todayStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	missedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	src history.Source
	cfg model.StatsConfig

	report history.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	entries   table.Model

	width  int
	height int
}

// NewModel constructs a history UI model.
func NewModel(src history.Source, cfg model.StatsConfig) *Model {
	if cfg.Window < minWindow {
		cfg.Window = minWindow
	}
	m := &Model{
		src:  src,
		cfg:  cfg,
		tabs: []string{"Overview", "Calendar", "Entries"},
	}
	m.initViewports()
	m.entries = buildEntriesTable(nil, 0, 1)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.setWindow(m.cfg.Window + 1)
			return m, nil
		case "-":
			m.setWindow(m.cfg.Window - 1)
			return m, nil
		case "g", "home":
			if m.activeTab == tabEntries {
				m.entries.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabEntries {
				m.entries.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabEntries {
				var cmd tea.Cmd
				m.entries, cmd = m.entries.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.entries.SetWidth(m.width)
	m.entries.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabEntries {
		m.entries.Focus()
	} else {
		m.entries.Blur()
	}
}

func (m *Model) setWindow(window int) {
	if window < minWindow {
		window = minWindow
	}
	if window > maxWindow {
		window = maxWindow
	}
	m.cfg.Window = window
	m.report.Window = window
	m.renderTabContents()
}

func (m *Model) refreshReport() {
	report, err := history.Build(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.entries.SetRows(entryRows(report.Entries))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabCalendar].SetContent(renderCalendar(m.report.Calendar))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(model.DayLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.Window)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabEntries {
		if len(m.report.Entries) == 0 {
			return "No entries found."
		}
		return tableMutedStyle.Render(m.entries.View())
	}
	return m.viewports[m.activeTab].View()
}

func renderOverview(r history.Report, width int) string {
	totals := history.Summarize(r.Entries)
	cards := []string{
		metricCard("Current streak", plural(r.CurrentStreak, "day")),
		metricCard("Longest streak", plural(r.Streak.LongestStreak, "day")),
		metricCard("Completed", fmt.Sprintf("%d", r.Streak.TotalDays)),
		metricCard("Entries", fmt.Sprintf("%d", totals.Entries)),
		metricCard("Avg words", fmt.Sprintf("%.0f", totals.Average)),
		metricCard("Best day", bestDay(totals)),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{grid, ""}
	if len(r.Entries) > 1 {
		trend := history.MovingAverage(history.WordSeries(r.Entries), r.Window)
		lines = append(lines,
			headerStyle.Render(fmt.Sprintf("Words per entry (window %d)", r.Window)),
			history.Sparkline(trend),
			"",
		)
	}
	if len(r.Calendar) > 0 {
		lines = append(lines, headerStyle.Render("Last 30 days"), calendarStrip(r.Calendar))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func bestDay(t history.Totals) string {
	if t.Entries == 0 {
		return "-"
	}
	return fmt.Sprintf("%d on %s", t.BestWord, t.BestDay)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func calendarStrip(days []model.CalendarDay) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(dayCell(d))
	}
	return b.String()
}

func dayCell(d model.CalendarDay) string {
	switch {
	case d.Completed:
		return doneStyle.Render(history.CellDone)
	case d.IsToday:
		return todayStyle.Render(history.CellPending)
	default:
		return missedStyle.Render(history.CellMissed)
	}
}

// renderCalendar lays the days out in Monday-first week rows.
func renderCalendar(days []model.CalendarDay) string {
	if len(days) == 0 {
		return "No calendar data."
	}
	done := 0
	for _, d := range days {
		if d.Completed {
			done++
		}
	}
	first, last := days[0].Date, days[len(days)-1].Date
	lines := []string{
		fmt.Sprintf("%s to %s", first.Format("Jan 2"), last.Format("Jan 2")),
		"",
		headerStyle.Render(" Mon  Tue  Wed  Thu  Fri  Sat  Sun"),
	}
	var row strings.Builder
	row.WriteString(strings.Repeat("     ", weekdayIndex(first)))
	for _, d := range days {
		row.WriteString(fmt.Sprintf(" %2d%s ", d.Date.Day(), dayCell(d)))
		if weekdayIndex(d.Date) == 6 {
			lines = append(lines, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
	if row.Len() > 0 {
		lines = append(lines, strings.TrimRight(row.String(), " "))
	}
	lines = append(lines, "", fmt.Sprintf("%d of %d days completed", done, len(days)))
	return strings.Join(lines, "\n")
}

func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func entryRows(entries []model.DayEntry) []table.Row {
	cells := history.EntryRows(entries)
	rows := make([]table.Row, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, table.Row(c))
	}
	return rows
}

func buildEntriesTable(rows []table.Row, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Day", Width: 10},
		{Title: "Words", Width: 6},
		{Title: "Progress", Width: 8},
		{Title: "Mood", Width: 13},
		{Title: "Theme", Width: 13},
		{Title: "Done", Width: 4},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(entriesTableStyles())
	return t
}

func entriesTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
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

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

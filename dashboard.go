package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#34D399")
	muted  = lipgloss.Color("#9CA3AF")
	panel  = lipgloss.Color("#111827")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#065F46")).
			Padding(1, 2)

	boxTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6EE7B7")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Background(panel).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	cardLabelStyle = lipgloss.NewStyle().Foreground(muted).Background(panel)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6EE7B7")).Background(panel)

	autoOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(accent).
			Padding(0, 1)

	autoOffStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6EE7B7")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#059669")).
			Padding(0, 1)

	resetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#DC2626")).
			Padding(0, 1)

	rowStyle         = lipgloss.NewStyle().Background(panel).Padding(0, 1)
	selectedRowStyle = rowStyle.Foreground(accent).Bold(true)
	minusStyle       = lipgloss.NewStyle().Background(lipgloss.Color("#374151")).Padding(0, 1)
	plusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(accent).Padding(0, 1)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

type keyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Up     key.Binding
	Down   key.Binding
	Plus   key.Binding
	Minus  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Up, k.Down, k.Minus, k.Plus, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Quit},
		{k.Up, k.Down, k.Minus, k.Plus},
	}
}

var defaultKeys = keyMap{
	Toggle: key.NewBinding(key.WithKeys("a", " "), key.WithHelp("a/space", "auto/manual")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Plus:   key.NewBinding(key.WithKeys("+", "=", "right", "l"), key.WithHelp("+", "increase")),
	Minus:  key.NewBinding(key.WithKeys("-", "_", "left", "h"), key.WithHelp("-", "decrease")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tickMsg carries the generation of the tick chain that scheduled it.
// Ticks from an older generation are dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

func tickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

type dashboardModel struct {
	stats    *Stats
	rng      Rand
	interval time.Duration
	tickGen  int
	cursor   int
	keys     keyMap
	help     help.Model
	log      *slog.Logger
	width    int
	height   int
}

func newDashboardModel(stats *Stats, rng Rand, interval time.Duration, log *slog.Logger) dashboardModel {
	if log == nil {
		log = discardLogger()
	}
	return dashboardModel{
		stats:    stats,
		rng:      rng,
		interval: interval,
		keys:     defaultKeys,
		help:     help.New(),
		log:      log,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	if m.stats.AutoMode() {
		return tickCmd(m.interval, m.tickGen)
	}
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tickMsg:
		if msg.gen != m.tickGen || !m.stats.AutoMode() {
			return m, nil
		}
		m.stats.Tick(m.rng)
		return m, tickCmd(m.interval, m.tickGen)
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		// Any tick already in flight belongs to the old generation.
		m.tickGen++
		if m.stats.ToggleAuto() {
			return m, tickCmd(m.interval, m.tickGen)
		}
	case key.Matches(msg, m.keys.Reset):
		m.stats.Reset()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(allStats)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Plus):
		st := allStats[m.cursor]
		m.stats.Adjust(st, st.Step())
	case key.Matches(msg, m.keys.Minus):
		st := allStats[m.cursor]
		m.stats.Adjust(st, -st.Step())
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	snap := m.stats.Snapshot()

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🌿 GodAI Genesis Dashboard"),
		subtitleStyle.Render("Auto/manual control • persistent state • lightweight UI"),
	)

	colWidth := max(m.width/2-2, 30)
	statsBox := boxStyle.Width(colWidth).Render(renderStatsPanel(snap, colWidth-6))
	controlsBox := boxStyle.Width(colWidth).Render(renderControlsPanel(snap, m.cursor, colWidth-6))

	var content string
	if m.width >= 2*colWidth+4 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, statsBox, controlsBox)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left, statsBox, controlsBox)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left,
		m.help.View(m.keys),
		footerStyle.Render("© GodAI · persistent values saved locally"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func renderStatsPanel(s Snapshot, width int) string {
	cardWidth := max(width/2-1, 10)
	cards := make([]string, len(allStats))
	for i, st := range allStats {
		cards[i] = renderStatCard(st.Label(), st.Format(s.Value(st)), cardWidth)
	}
	grid := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3]),
	)
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, modeLabel(s.AutoMode), " ", resetStyle.Render("Reset"))
	return lipgloss.JoinVertical(lipgloss.Left, boxTitleStyle.Render("Stats"), grid, buttons)
}

func renderStatCard(label, value string, width int) string {
	return cardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		cardLabelStyle.Render(label),
		cardValueStyle.Render(value),
	))
}

func modeLabel(auto bool) string {
	if auto {
		return autoOnStyle.Render("🟢 Auto Mode")
	}
	return autoOffStyle.Render("⚪ Manual Mode")
}

func renderControlsPanel(s Snapshot, cursor, width int) string {
	rows := make([]string, 0, len(allStats)+2)
	rows = append(rows, boxTitleStyle.Render("Controls"))
	for i, st := range allStats {
		rows = append(rows, renderControlRow(st, i == cursor, width))
	}
	barWidth := max(width-6, 10)
	rows = append(rows, "", fmt.Sprintf("%s %3d%%", progressBar(s.Progress, barWidth), s.Progress))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderControlRow(st Stat, selected bool, width int) string {
	style := rowStyle
	marker := "  "
	if selected {
		style = selectedRowStyle
		marker = "▸ "
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		minusStyle.Render("−"), " ", plusStyle.Render("+"),
		fmt.Sprintf(" ±%d", st.Step()),
	)
	label := marker + st.Label()
	gap := max(width-lipgloss.Width(label)-lipgloss.Width(buttons)-2, 1)
	return style.Width(width).Render(label + strings.Repeat(" ", gap) + buttons)
}

// progressBar maps a 0-100 percentage onto width cells.
func progressBar(percentage int, width int) string {
	percentage = clamp(percentage, 0, maxPercent)
	filled := (percentage * width) / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(accent).Render(bar)
}

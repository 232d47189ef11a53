package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestDashboard(t *testing.T) (dashboardModel, *Stats) {
	t.Helper()
	stats := LoadStats(newMemoryStore(), nil)
	m := newDashboardModel(stats, fakeRand{n: 3, f: 0.1}, time.Millisecond, nil)
	return m, stats
}

func update(t *testing.T, m dashboardModel, msg tea.Msg) (dashboardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	dm, ok := next.(dashboardModel)
	require.True(t, ok)
	return dm, cmd
}

func TestDashboard_InitSchedulesTickOnlyInAuto(t *testing.T) {
	m, stats := newTestDashboard(t)
	require.NotNil(t, m.Init())

	stats.ToggleAuto()
	assert.Nil(t, m.Init())
}

func TestDashboard_TickAppliesAndReschedules(t *testing.T) {
	m, stats := newTestDashboard(t)
	m, cmd := update(t, m, tickMsg{gen: m.tickGen})
	require.NotNil(t, cmd)
	assert.Equal(t, Snapshot{Earnings: 3, ActiveAIs: 1, Energy: 11, Progress: 1, AutoMode: true}, stats.Snapshot())

	msg, ok := cmd().(tickMsg)
	require.True(t, ok)
	assert.Equal(t, m.tickGen, msg.gen)
}

func TestDashboard_ManualModeIgnoresTicks(t *testing.T) {
	m, stats := newTestDashboard(t)
	staleGen := m.tickGen

	m, cmd := update(t, m, runeKey("a"))
	assert.Nil(t, cmd)
	assert.False(t, stats.AutoMode())
	before := stats.Snapshot()

	// A tick scheduled before the toggle and one carrying the current generation.
	m, cmd = update(t, m, tickMsg{gen: staleGen})
	assert.Nil(t, cmd)
	m, cmd = update(t, m, tickMsg{gen: m.tickGen})
	assert.Nil(t, cmd)
	assert.Equal(t, before, stats.Snapshot())
}

func TestDashboard_ReenableStartsFreshChain(t *testing.T) {
	m, stats := newTestDashboard(t)
	first := m.tickGen
	m, _ = update(t, m, runeKey("a"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, stats.AutoMode())
	require.NotNil(t, cmd)

	msg, ok := cmd().(tickMsg)
	require.True(t, ok)
	assert.NotEqual(t, first, msg.gen)

	// The chain from before the pause stays dead.
	before := stats.Snapshot()
	m, cmd = update(t, m, tickMsg{gen: first})
	assert.Nil(t, cmd)
	assert.Equal(t, before, stats.Snapshot())

	_, cmd = update(t, m, msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, before.Energy+1, stats.Get(StatEnergy))
}

func TestDashboard_ControlRows(t *testing.T) {
	m, stats := newTestDashboard(t)
	m, _ = update(t, m, runeKey("+"))
	assert.Equal(t, 10, stats.Get(StatEarnings))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, runeKey("+"))
	m, _ = update(t, m, runeKey("+"))
	m, _ = update(t, m, runeKey("-"))
	assert.Equal(t, 1, stats.Get(StatActiveAIs))

	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("-"))
	assert.Equal(t, 5, stats.Get(StatEnergy))

	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("j")) // already on the last row
	m, _ = update(t, m, runeKey("+"))
	assert.Equal(t, 5, stats.Get(StatProgress))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.cursor)
}

func TestDashboard_Reset(t *testing.T) {
	m, stats := newTestDashboard(t)
	stats.SetValue(StatEarnings, 900)
	stats.SetValue(StatProgress, 60)
	_, _ = update(t, m, runeKey("r"))
	assert.Equal(t, Snapshot{Energy: 10, AutoMode: true}, stats.Snapshot())
}

func TestDashboard_Quit(t *testing.T) {
	m, _ := newTestDashboard(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestDashboard_View(t *testing.T) {
	m, stats := newTestDashboard(t)
	assert.Equal(t, "Loading...", m.View())

	stats.SetValue(StatEarnings, 70)
	stats.SetValue(StatProgress, 50)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := ansi.Strip(m.View())
	for _, want := range []string{"GodAI Genesis Dashboard", "₹70", "Active AIs", "10%", "50%", "Auto Mode", "Reset", "Controls", "±10", "±5"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Manual Mode")

	m, _ = update(t, m, runeKey("a"))
	assert.Contains(t, ansi.Strip(m.View()), "Manual Mode")
}

func TestProgressBar(t *testing.T) {
	cases := []struct {
		pct, width, filled int
	}{
		{0, 20, 0},
		{50, 20, 10},
		{100, 20, 20},
		{37, 100, 37},
		{150, 10, 10},
	}
	for _, c := range cases {
		bar := ansi.Strip(progressBar(c.pct, c.width))
		assert.Equal(t, c.filled, strings.Count(bar, "█"), "pct %d", c.pct)
		assert.Equal(t, c.width-c.filled, strings.Count(bar, "░"), "pct %d", c.pct)
	}
}

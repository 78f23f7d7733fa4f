package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/smctune/internal/optim"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	historyLimit = 300
)

// ProgressMsg carries one swarm iteration into the view.
type ProgressMsg optim.IterationStats

// DoneMsg ends the live view; Err is non-nil if tuning failed.
type DoneMsg struct{ Err error }

// Model renders a running gain-tuning session: per-iteration best and
// mean fitness, failed-evaluation counts, collapse warnings, and a
// convergence sparkline.
type Model struct {
	controller string
	total      int
	updates    <-chan tea.Msg

	latest    optim.IterationStats
	history   []float64
	collapses int
	failed    int
	started   bool
	done      bool
	err       error
}

func NewModel(controller string, iterations int, updates <-chan tea.Msg) Model {
	return Model{
		controller: controller,
		total:      iterations,
		updates:    updates,
		history:    make([]float64, 0, historyLimit),
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case ProgressMsg:
		m.started = true
		m.latest = optim.IterationStats(msg)
		m.failed += m.latest.Failed
		if m.latest.Collapsed {
			m.collapses++
		}
		if !math.IsInf(m.latest.BestVal, 1) {
			m.history = append(m.history, m.latest.BestVal)
			if len(m.history) > historyLimit {
				m.history = m.history[1:]
			}
		}
		return m, m.wait()

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("tuning %s controller", m.controller)))
	b.WriteString("\n")

	if !m.started {
		b.WriteString(valueStyle.Render("waiting for first iteration..."))
		b.WriteString("\n")
	} else {
		row(&b, "iteration", fmt.Sprintf("%d / %d", m.latest.Iteration+1, m.total))
		row(&b, "best fitness", fmt.Sprintf("%.4f", m.latest.BestVal))
		row(&b, "mean fitness", fmt.Sprintf("%.4f", m.latest.MeanVal))
		row(&b, "failed evals", fmt.Sprintf("%d", m.failed))
		row(&b, "best gains", formatGains(m.latest.BestPos))
	}

	if m.collapses > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("flat fitness detected in %d iteration(s) - investigate before trusting results", m.collapses)))
		b.WriteString("\n")
	}

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("best fitness"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if m.done {
		if m.err != nil {
			b.WriteString(warnStyle.Render(fmt.Sprintf("tuning failed: %v", m.err)))
		} else {
			b.WriteString(valueStyle.Render("tuning complete"))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func formatGains(gains []float64) string {
	if len(gains) == 0 {
		return "-"
	}
	parts := make([]string, len(gains))
	for i, g := range gains {
		parts[i] = fmt.Sprintf("%.2f", g)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

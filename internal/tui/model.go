package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/parking"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

// Source is the engine surface the view reads and drives.
type Source interface {
	Status() scene.Dashboard
	Trigger(ctx context.Context, id string) (string, error)
	Refresh(ctx context.Context) error
	Catalog() *scene.Catalog
}

type changedMsg struct{}

type triggeredMsg struct {
	sceneID string
	err     error
}

type refreshedMsg struct{ err error }

// spotsPerRow is the parking grid width.
const spotsPerRow = 4

// Model is the Bubble Tea model for the watch view.
type Model struct {
	ctx     context.Context
	src     Source
	changes <-chan struct{}

	dash   scene.Dashboard
	status string
	width  int
}

// NewModel creates a model reading src and redrawing on every signal from
// changes.
func NewModel(ctx context.Context, src Source, changes <-chan struct{}) Model {
	return Model{
		ctx:     ctx,
		src:     src,
		changes: changes,
		dash:    src.Status(),
		status:  "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) trigger(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.src.Trigger(m.ctx, id)
		return triggeredMsg{sceneID: id, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.src.Refresh(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case changedMsg:
		m.dash = m.src.Status()
		return m, m.waitForChange()

	case triggeredMsg:
		if msg.err != nil {
			m.status = "scene " + msg.sceneID + ": " + msg.err.Error()
		} else {
			m.status = "scene " + msg.sceneID + " triggered"
		}
		m.dash = m.src.Status()

	case refreshedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
		} else {
			m.status = "sessions refreshed"
		}
		m.dash = m.src.Status()

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.status = "refreshing..."
			return m, m.refresh()
		}
		if _, ok := m.src.Catalog().Get(key); ok {
			m.status = "triggering scene " + key + "..."
			return m, m.trigger(key)
		}
	}
	return m, nil
}

func (m Model) View() string {
	gatePane := paneStyle.Render(m.renderGate())
	lotPane := paneStyle.Render(m.renderLot())

	body := lipgloss.JoinHorizontal(lipgloss.Top, gatePane, " ", lotPane)
	if m.width > 0 && lipgloss.Width(body) > m.width {
		body = lipgloss.JoinVertical(lipgloss.Left, gatePane, lotPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("IntelliPark"),
		body,
		m.renderScenes(),
		mutedStyle.Render(m.status),
	)
}

func (m Model) renderGate() string {
	g := m.dash.Gate
	var b strings.Builder

	title := "Gate"
	if m.dash.SceneLabel != "" {
		title += " · " + m.dash.SceneLabel
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	fmt.Fprintf(&b, "%s  %s\n\n", mutedStyle.Render(string(g.Mode)), g.PlateLabel())

	for _, e := range g.Timeline {
		switch e.State {
		case gate.ItemDone:
			b.WriteString(doneStyle.Render("✓ " + e.Label))
		case gate.ItemActive:
			b.WriteString(activeStyle.Render("▶ " + e.Label))
		default:
			b.WriteString(mutedStyle.Render("· " + e.Label))
		}
		b.WriteString("\n")
	}

	if d := m.dash.Denial; d != nil {
		b.WriteString("\n" + deniedStyle.Render("Denied: "+d.Message))
		if d.Plate != "" {
			b.WriteString(deniedStyle.Render(" (" + d.Plate + ")"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderLot() string {
	lot := m.dash.Lot
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Lot"))
	fmt.Fprintf(&b, "total %d  taken %d  empty %d", lot.Stats.Total, lot.Stats.Taken, lot.Stats.Empty)
	if lot.Full {
		b.WriteString("  " + deniedStyle.Render("FULL"))
	}
	b.WriteString("\n")

	var rows []string
	var row []string
	for _, s := range lot.Spots {
		row = append(row, renderSpot(s))
		if len(row) == spotsPerRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if m.dash.Advisory != "" {
		b.WriteString("\n" + activeStyle.Render(m.dash.Advisory))
	}
	return b.String()
}

func renderSpot(s parking.Spot) string {
	label := fmt.Sprintf("#%d\n%s", s.Spot, "free")
	style := spotFreeStyle
	if s.Occupied {
		plate := s.Plate
		if plate == "" {
			plate = parking.DisplayStatus(s.Status)
		}
		label = fmt.Sprintf("#%d\n%s", s.Spot, plate)
		style = spotTakenStyle
	}
	return style.Render(label)
}

func (m Model) renderScenes() string {
	entries := m.src.Catalog().List()
	parts := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("[%s] %s", e.ID, e.Label))
	}
	parts = append(parts, "[r] refresh", "[q] quit")
	return mutedStyle.Render(strings.Join(parts, "  "))
}

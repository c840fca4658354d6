package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// nodePicker is a bubbletea model for choosing a file from a graph.
// Typing filters the list by substring; enter selects.
type nodePicker struct {
	nodes    []depgraph.Node
	degree   map[string][2]int // id -> importers, importees
	filter   string
	matches  []int
	cursor   int
	offset   int
	height   int
	selected string
}

func newNodePicker(data depgraph.Data) nodePicker {
	degree := make(map[string][2]int, len(data.Nodes))
	for _, e := range data.Edges {
		d := degree[e.Target]
		d[0]++
		degree[e.Target] = d
		d = degree[e.Source]
		d[1]++
		degree[e.Source] = d
	}
	m := nodePicker{nodes: data.Nodes, degree: degree, height: 15}
	m.applyFilter()
	return m
}

func (m *nodePicker) applyFilter() {
	m.matches = nil
	q := strings.ToLower(m.filter)
	for i, n := range m.nodes {
		if q == "" || strings.Contains(strings.ToLower(n.ID), q) {
			m.matches = append(m.matches, i)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m nodePicker) Init() tea.Cmd { return nil }

func (m nodePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case tea.KeyDown:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.matches) > 0 {
				m.selected = m.nodes[m.matches[m.cursor]].ID
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.filter != "" {
				m.filter = m.filter[:len(m.filter)-1]
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m nodePicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select File"))
	b.WriteString("  ")
	if m.filter == "" {
		b.WriteString(listDimStyle.Render("type to filter"))
	} else {
		b.WriteString(StyleValue.Render(m.filter))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(listDimStyle.Render("  no matching files"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.matches))
	for i := m.offset; i < end; i++ {
		n := m.nodes[m.matches[i]]
		d := m.degree[n.ID]
		counts := listDimStyle.Render(fmt.Sprintf("  ←%d →%d", d[0], d[1]))
		cat := lipgloss.NewStyle().Foreground(categoryColors[n.Category]).Render(string(n.Category))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ "+n.ID) + "  " + cat + counts)
		} else {
			b.WriteString(listNormalStyle.Render("  "+n.ID) + "  " + cat + counts)
		}
		b.WriteString("\n")
	}
	if len(m.matches) > m.height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("\n  %d of %d files", len(m.matches), len(m.nodes))))
		b.WriteString("\n")
	}
	return b.String()
}

// pickNode runs the picker and returns the chosen ID, or "" if cancelled.
func pickNode(data depgraph.Data) (string, error) {
	final, err := tea.NewProgram(newNodePicker(data)).Run()
	if err != nil {
		return "", err
	}
	return final.(nodePicker).selected, nil
}

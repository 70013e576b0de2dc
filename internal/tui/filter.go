package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterState is the attribute filter box. While the box is open every
// keystroke goes to it; closing with esc clears the filter, closing with
// enter keeps it applied.
type filterState struct {
	input  textinput.Model
	active bool
}

func newFilterState() filterState {
	in := textinput.New()
	in.Placeholder = "filter"
	in.CharLimit = 60
	return filterState{input: in}
}

func (f *filterState) open() {
	f.active = true
	f.input.Focus()
}

func (f *filterState) value() string {
	return strings.TrimSpace(f.input.Value())
}

func (f *filterState) applied() bool {
	return f.value() != ""
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.active = false
		m.filter.input.SetValue("")
		m.syncFilterContext()
		return m, nil
	case "enter":
		m.filter.active = false
		m.filter.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter.input, cmd = m.filter.input.Update(msg)
	m.syncFilterContext()
	return m, cmd
}

// syncFilterContext mirrors the filter into the geometry context: an active
// filter forces every attribute row visible.
func (m Model) syncFilterContext() {
	ctx := m.ctrl.Context()
	ctx.FilterActive = m.filter.applied()
	m.ctrl.SetContext(ctx)
}

// filterMatches counts entities whose name or attributes contain the filter
// text, case-insensitively.
func (m Model) filterMatches() int {
	text := strings.ToLower(m.filter.value())
	if text == "" {
		return 0
	}
	n := 0
	for _, e := range m.ctrl.Entities() {
		if strings.Contains(strings.ToLower(e.Name), text) ||
			strings.Contains(strings.ToLower(e.LogicalName), text) {
			n++
			continue
		}
		for _, a := range e.Attributes {
			if strings.Contains(strings.ToLower(a.Name), text) {
				n++
				break
			}
		}
	}
	return n
}

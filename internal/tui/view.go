package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/henghegou-crypto/datamodel/internal/canvas"
	"github.com/henghegou-crypto/datamodel/internal/render"
)

var (
	barStyle       = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	barAccentStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("81")).Bold(true)
	barDirtyStyle  = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("214"))
	barErrStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("203"))
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	cols, rows := m.canvasSize()

	var body string
	switch {
	case m.form != nil:
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, m.form.view())
	case m.labelEdit != nil:
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, m.labelEdit.view())
	case m.showHelp:
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, helpView())
	default:
		body = m.renderer.Render(m.scene(), cols, rows)
	}
	return body + "\n" + m.statusBar(cols)
}

func (m Model) scene() render.Scene {
	w, h := m.screenSize()
	s := render.Scene{
		Entities:      m.ctrl.EffectiveEntities(),
		Relationships: m.ctrl.Relationships(),
		View:          m.view,
		Ctx:           m.ctrl.Context(),
		Selected:      m.ctrl.Selected(),
		SelectedRel:   m.ctrl.SelectedRelationship(),
		Hovered:       m.ctrl.Hover(),
		ConnectSource: m.ctrl.ConnectSource(),
		ConnectTo:     m.lastMouse,
		Connecting:    m.ctrl.ConnectSource() != "",
		Loading:       m.loading,
		ShowMinimap:   m.showMinimap,
		ScreenW:       w,
		ScreenH:       h,
	}
	if r, ok := m.ctrl.MarqueeRect(); ok {
		s.Marquee = &r
	}
	return s
}

func (m Model) statusBar(cols int) string {
	var parts []string
	parts = append(parts, barAccentStyle.Render(" "+toolName(m.ctrl.Tool())+" "))
	parts = append(parts, barStyle.Render(string(m.sess.diagram.Kind)))
	parts = append(parts, barStyle.Render(fmt.Sprintf("%d%%", int(m.view.Zoom*100))))
	parts = append(parts, barStyle.Render(fmt.Sprintf("%d entities · %d links",
		len(m.ctrl.Entities()), len(m.ctrl.Relationships()))))

	if m.sess.dirty {
		parts = append(parts, barDirtyStyle.Render("●"))
	}
	if m.filter.active {
		parts = append(parts, barStyle.Render("/"+m.filter.input.View()))
	} else if m.filter.applied() {
		parts = append(parts, barStyle.Render(fmt.Sprintf("/%s (%d)", m.filter.value(), m.filterMatches())))
	}
	if m.status != "" {
		style := barStyle
		if m.statusErr {
			style = barErrStyle
		}
		parts = append(parts, style.Render(m.status))
	}

	line := strings.Join(parts, barStyle.Render(" │ "))
	if pad := cols - lipgloss.Width(line); pad > 0 {
		line += barStyle.Render(strings.Repeat(" ", pad))
	}
	return line
}

func toolName(t canvas.Tool) string {
	switch t {
	case canvas.ToolPan:
		return "pan"
	case canvas.ToolConnect:
		return "connect"
	default:
		return "select"
	}
}

func helpView() string {
	rows := []string{
		"v / h / c      select · pan · connect tool",
		"space          toggle pan tool",
		"wheel          zoom at pointer",
		"+ / - / 0      zoom in · out · reset",
		"arrows         pan",
		"n              new entity",
		"e / enter      edit selection",
		"double-click   edit entity",
		"tab            collapse / expand attributes",
		"y / p / x      copy · paste · delete",
		"u / ctrl+r     undo · redo",
		"a              select all",
		"g              suggest attributes",
		"L              auto-arrange",
		"r / t / l      cardinality · line style · label",
		"1-4            conceptual · logical · physical · dimensional",
		"/              filter",
		"m              toggle minimap",
		"S / T / D      export PNG · export text · copy SQL",
		"w / V          save · snapshot version",
		"q              quit",
	}
	return formFrame.Render(formTitle.Render("Keys") + "\n\n" + strings.Join(rows, "\n"))
}

func sanitizeFilename(name string) string {
	out := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if out == "" {
		return "diagram"
	}
	return out
}

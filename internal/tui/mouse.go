package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henghegou-crypto/datamodel/internal/canvas"
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/render"
)

const (
	wheelZoomFactor = 1.1
	wheelPanStep    = 40.0 // screen units per wheel tick when panning
)

// cellToScreen maps a mouse cell to the pixel at its center.
func cellToScreen(x, y int) geometry.Point {
	return geometry.Point{
		X: (float64(x) + 0.5) * render.CellW,
		Y: (float64(y) + 0.5) * render.CellH,
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.form != nil || m.labelEdit != nil || m.showHelp {
		return m, nil
	}
	screen := cellToScreen(msg.X, msg.Y)
	m.lastMouse = screen

	// Vertical wheel zooms; shift+wheel and the horizontal wheel axis pan,
	// covering trackpad two-finger gestures.
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			m.view.PanBy(wheelPanStep, 0)
		} else {
			m.view.ZoomAt(screen, wheelZoomFactor)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Shift {
			m.view.PanBy(-wheelPanStep, 0)
		} else {
			m.view.ZoomAt(screen, 1/wheelZoomFactor)
		}
		return m, nil
	case tea.MouseButtonWheelLeft:
		m.view.PanBy(wheelPanStep, 0)
		return m, nil
	case tea.MouseButtonWheelRight:
		m.view.PanBy(-wheelPanStep, 0)
		return m, nil
	}

	ev := canvas.PointerEvent{
		Screen: screen,
		Button: mapButton(msg.Button),
		Mod:    canvas.Modifiers{Multi: msg.Shift || msg.Ctrl},
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if m.showMinimap && m.inMinimap(msg.X, msg.Y) && msg.Button == tea.MouseButtonLeft {
			return m.minimapPress(msg.X, msg.Y)
		}
		if msg.Button == tea.MouseButtonLeft && m.isDoubleClick(screen) {
			if e, ok := m.ctrl.EntityAt(screen); ok {
				m.form = newEntityForm(e)
				return m, nil
			}
		}
		m.lastClickAt = time.Now()
		m.lastClickPos = screen
		m.ctrl.PointerDown(ev)
		return m, nil

	case tea.MouseActionMotion:
		if m.minimapDrag {
			return m.minimapMotion(msg.X, msg.Y)
		}
		if m.ctrl.PointerMove(ev) && !m.frameQueued {
			m.frameQueued = true
			return m, frameTick()
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.minimapDrag {
			m.minimapDrag = false
			return m, nil
		}
		// Apply any coalesced motion before the gesture reconciles.
		m.ctrl.Flush()
		m.ctrl.PointerUp(ev)
		return m, nil
	}
	return m, nil
}

func mapButton(b tea.MouseButton) canvas.Button {
	switch b {
	case tea.MouseButtonMiddle:
		return canvas.ButtonMiddle
	case tea.MouseButtonRight:
		return canvas.ButtonRight
	default:
		return canvas.ButtonLeft
	}
}

func (m Model) isDoubleClick(screen geometry.Point) bool {
	if time.Since(m.lastClickAt) > doubleClickSpan {
		return false
	}
	return geometry.Distance(screen, m.lastClickPos) < render.CellW*2
}

// inMinimap reports whether a mouse cell falls inside the minimap panel.
func (m Model) inMinimap(x, y int) bool {
	cols, _ := m.canvasSize()
	ox, oy := render.MinimapOrigin(cols)
	if ox < 0 {
		return false
	}
	w, h := render.MinimapSize()
	return x >= ox && x < ox+w && y >= oy && y < oy+h
}

// minimapPress jumps the viewport to the clicked world point and arms a
// viewfinder drag.
func (m Model) minimapPress(x, y int) (tea.Model, tea.Cmd) {
	cols, _ := m.canvasSize()
	ox, oy := render.MinimapOrigin(cols)
	mapPt := geometry.Point{X: float64(x - ox), Y: float64(y - oy)}

	mm := m.renderer.MinimapProjection()
	bounds := mm.Bounds(m.ctrl.EffectiveEntities(), m.ctrl.Context())
	w, h := m.screenSize()
	mm.JumpTo(m.view, bounds, mapPt, w, h)

	m.minimapDrag = true
	m.minimapLast = mapPt
	return m, nil
}

func (m Model) minimapMotion(x, y int) (tea.Model, tea.Cmd) {
	cols, _ := m.canvasSize()
	ox, oy := render.MinimapOrigin(cols)
	mapPt := geometry.Point{X: float64(x - ox), Y: float64(y - oy)}

	mm := m.renderer.MinimapProjection()
	bounds := mm.Bounds(m.ctrl.EffectiveEntities(), m.ctrl.Context())
	mm.DragBy(m.view, bounds, mapPt.X-m.minimapLast.X, mapPt.Y-m.minimapLast.Y)
	m.minimapLast = mapPt
	return m, nil
}

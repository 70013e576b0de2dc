// Package tui is the terminal front end: a bubbletea program that feeds
// pointer and keyboard input to the canvas controller and draws the render
// layer's output. The program is the host in the update-sink relationship;
// committed batches land in the session and autosave picks them up.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henghegou-crypto/datamodel/internal/canvas"
	"github.com/henghegou-crypto/datamodel/internal/config"
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/render"
	"github.com/henghegou-crypto/datamodel/internal/store"
	"github.com/henghegou-crypto/datamodel/internal/suggest"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

const (
	frameInterval   = 16 * time.Millisecond
	doubleClickSpan = 400 * time.Millisecond
)

// session owns the committed diagram state. It is shared by pointer between
// the bubbletea model values that Update produces, so canvas commits survive
// the value copies.
type session struct {
	diagram *model.Diagram
	dirty   bool
	hist    history
}

// ApplyBatch implements canvas.Sink: full replacement collections, marked
// dirty for the next autosave tick. The replaced state goes on the undo
// stack.
func (s *session) ApplyBatch(entities []model.EntityNode, rels []model.Relationship) {
	s.hist.push(snapshot{entities: s.diagram.Entities, rels: s.diagram.Relationships})
	s.diagram.Entities = entities
	s.diagram.Relationships = rels
	s.dirty = true
}

func (s *session) current() snapshot {
	return snapshot{entities: s.diagram.Entities, rels: s.diagram.Relationships}
}

func (s *session) restore(snap snapshot) {
	s.diagram.Entities = snap.entities
	s.diagram.Relationships = snap.rels
	s.dirty = true
}

// Model is the bubbletea model for the editor.
type Model struct {
	cfg      config.Config
	store    *store.Store
	sess     *session
	view     *viewport.Viewport
	ctrl     *canvas.Controller
	renderer *render.Renderer
	provider suggest.Provider

	width  int
	height int

	showMinimap bool
	showHelp    bool
	spacePan    bool // pan tool entered via space, restored on next space

	filter    filterState
	form      *entityForm
	labelEdit *labelForm

	loading map[string]bool

	lastClickAt  time.Time
	lastClickPos geometry.Point

	frameQueued bool
	minimapDrag bool
	minimapLast geometry.Point
	lastMouse   geometry.Point

	status    string
	statusErr bool
}

type frameMsg struct{}
type autosaveMsg struct{}
type savedMsg struct{ err error }
type exportedMsg struct {
	path string
	err  error
}
type suggestMsg struct {
	entityID string
	attrs    []model.Attribute
	err      error
}
type statusClearMsg struct{}

// New builds the editor over an opened store and a loaded diagram.
func New(cfg config.Config, st *store.Store, d *model.Diagram, vp viewport.Viewport) Model {
	sess := &session{diagram: d}
	view := &viewport.Viewport{Offset: vp.Offset, Zoom: vp.Zoom}
	if view.Zoom == 0 {
		view.Zoom = 1
	}
	ctx := geometry.Context{Kind: d.Kind}
	ctrl := canvas.New(view, ctx, sess)
	ctrl.SetModel(d.Entities, d.Relationships)

	return Model{
		cfg:         cfg,
		store:       st,
		sess:        sess,
		view:        view,
		ctrl:        ctrl,
		renderer:    render.New(),
		provider:    suggest.Heuristic{},
		showMinimap: cfg.ShowMinimap,
		filter:      newFilterState(),
		loading:     make(map[string]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return m.autosaveTick()
}

func (m Model) autosaveTick() tea.Cmd {
	d := time.Duration(m.cfg.AutosaveSeconds) * time.Second
	return tea.Tick(d, func(time.Time) tea.Msg { return autosaveMsg{} })
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return statusClearMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.frameQueued = false
		m.ctrl.Flush()
		if m.ctrl.NeedsFlush() {
			m.frameQueued = true
			return m, frameTick()
		}
		return m, nil

	case autosaveMsg:
		if m.sess.dirty {
			m.sess.dirty = false
			return m, tea.Batch(m.saveCmd(), m.autosaveTick())
		}
		return m, m.autosaveTick()

	case savedMsg:
		if msg.err != nil {
			return m.withStatus("save failed: "+msg.err.Error(), true)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			return m.withStatus("export failed: "+msg.err.Error(), true)
		}
		return m.withStatus("exported "+msg.path, false)

	case suggestMsg:
		delete(m.loading, msg.entityID)
		if msg.err != nil {
			return m.withStatus("suggestions unavailable: "+msg.err.Error(), true)
		}
		return m.applySuggestions(msg)

	case statusClearMsg:
		m.status = ""
		return m, nil
	}
	return m, nil
}

// withStatus sets the status line and schedules its removal.
func (m Model) withStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusErr = isErr
	return m, clearStatusLater()
}

func (m Model) saveCmd() tea.Cmd {
	st, d, vp := m.store, m.sess.diagram, *m.view
	return func() tea.Msg {
		return savedMsg{err: st.SaveDiagram(d, vp)}
	}
}

func (m Model) applySuggestions(msg suggestMsg) (tea.Model, tea.Cmd) {
	e, ok := model.FindEntity(m.ctrl.Entities(), msg.entityID)
	if !ok || len(msg.attrs) == 0 {
		return m, nil
	}
	e = e.Clone()
	e.Attributes = append(e.Attributes, msg.attrs...)
	m.ctrl.ReplaceEntity(e)
	return m.withStatus("added suggested attributes", false)
}

// canvasSize returns the cell grid size available to the canvas: the full
// window minus the status line.
func (m Model) canvasSize() (cols, rows int) {
	cols = m.width
	if cols < 20 {
		cols = 20
	}
	rows = m.height - 1
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

// screenSize is the canvas size in screen pixel units.
func (m Model) screenSize() (w, h float64) {
	cols, rows := m.canvasSize()
	return float64(cols) * render.CellW, float64(rows) * render.CellH
}

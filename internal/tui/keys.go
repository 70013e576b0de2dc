package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/henghegou-crypto/datamodel/internal/canvas"
	"github.com/henghegou-crypto/datamodel/internal/export"
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/sqlgen"
)

const (
	layoutSpacingX = 280.0
	layoutSpacingY = 220.0
	keyPanStep     = 60.0 // screen units per arrow-key press
	suggestTimeout = 5 * time.Second
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal layers swallow everything except their own close keys.
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.labelEdit != nil {
		return m.updateLabelEdit(msg)
	}
	if m.filter.active {
		return m.updateFilter(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Sequence(m.saveCmd(), tea.Quit)

	case "esc":
		if m.ctrl.ConnectSource() != "" {
			m.ctrl.Cancel()
			return m, nil
		}
		m.ctrl.ClearSelection()
		return m, nil

	case "v":
		m.spacePan = false
		m.ctrl.SetTool(canvas.ToolSelect)
		return m, nil
	case "h":
		m.spacePan = false
		m.ctrl.SetTool(canvas.ToolPan)
		return m, nil
	case "c":
		m.spacePan = false
		m.ctrl.SetTool(canvas.ToolConnect)
		return m, nil

	case " ":
		// Terminals report no key-up, so space toggles rather than holds.
		if m.spacePan {
			m.spacePan = false
			m.ctrl.SetTool(canvas.ToolSelect)
		} else if m.ctrl.Tool() == canvas.ToolSelect {
			m.spacePan = true
			m.ctrl.SetTool(canvas.ToolPan)
		}
		return m, nil

	case "+", "=":
		m.view.ZoomStep(m.screenCenter(), 1.2)
		return m, nil
	case "-", "_":
		m.view.ZoomStep(m.screenCenter(), 1/1.2)
		return m, nil
	case "0":
		m.view.ZoomAt(m.screenCenter(), 1/m.view.Zoom)
		return m, nil

	case "up":
		m.view.PanBy(0, keyPanStep)
		return m, nil
	case "down":
		m.view.PanBy(0, -keyPanStep)
		return m, nil
	case "left":
		m.view.PanBy(keyPanStep, 0)
		return m, nil
	case "right":
		m.view.PanBy(-keyPanStep, 0)
		return m, nil

	case "u":
		if snap, ok := m.sess.hist.undo(m.sess.current()); ok {
			m.sess.restore(snap)
			m.ctrl.SetModel(snap.entities, snap.rels)
		}
		return m, nil
	case "ctrl+r":
		if snap, ok := m.sess.hist.redo(m.sess.current()); ok {
			m.sess.restore(snap)
			m.ctrl.SetModel(snap.entities, snap.rels)
		}
		return m, nil

	case "y":
		return m.copySelection()
	case "p":
		return m.pasteClipboard()
	case "x", "delete", "backspace":
		m.ctrl.DeleteSelection()
		return m, nil
	case "a":
		m.ctrl.SelectAll()
		return m, nil

	case "e", "enter":
		if e, ok := m.singleSelectedEntity(); ok {
			m.form = newEntityForm(e)
		}
		return m, nil
	case "n":
		return m.newEntity()
	case "tab":
		if e, ok := m.singleSelectedEntity(); ok {
			m.ctrl.ToggleCollapsed(e.ID)
		}
		return m, nil

	case "g":
		return m.requestSuggestions()
	case "L":
		return m.autoLayout()
	case "S":
		return m.exportPNG()
	case "T":
		return m.exportText()
	case "D":
		return m.copyDDL()
	case "w":
		m.sess.dirty = false
		return m, m.saveCmd()
	case "V":
		return m.snapshotVersion()

	case "r":
		return m.cycleCardinality()
	case "t":
		return m.cycleLineStyle()
	case "l":
		return m.editLabel()

	case "1", "2", "3", "4":
		return m.setKind(msg.String())

	case "/":
		m.filter.open()
		return m, nil
	case "m":
		m.showMinimap = !m.showMinimap
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil
	}
	return m, nil
}

func (m Model) screenCenter() geometry.Point {
	w, h := m.screenSize()
	return geometry.Point{X: w / 2, Y: h / 2}
}

func (m Model) singleSelectedEntity() (model.EntityNode, bool) {
	sel := m.ctrl.Selected()
	if len(sel) != 1 {
		return model.EntityNode{}, false
	}
	for id := range sel {
		return model.FindEntity(m.ctrl.Entities(), id)
	}
	return model.EntityNode{}, false
}

func (m Model) copySelection() (tea.Model, tea.Cmd) {
	snapshot := m.ctrl.Copy()
	if len(snapshot) == 0 {
		return m, nil
	}
	if blob, err := json.Marshal(snapshot); err == nil {
		// Best effort; the internal clipboard already has the snapshot.
		clipboard.WriteAll(string(blob))
	}
	return m.withStatus(fmt.Sprintf("copied %d", len(snapshot)), false)
}

func (m Model) pasteClipboard() (tea.Model, tea.Cmd) {
	if text, err := clipboard.ReadAll(); err == nil && text != "" {
		var snapshot []model.EntityNode
		if json.Unmarshal([]byte(text), &snapshot) == nil && len(snapshot) > 0 {
			m.ctrl.PasteSnapshot(snapshot)
			return m, nil
		}
	}
	m.ctrl.Paste()
	return m, nil
}

func (m Model) newEntity() (tea.Model, tea.Cmd) {
	world := m.view.ScreenToWorld(m.screenCenter())
	e := model.NewEntity(fmt.Sprintf("Entity %d", len(m.ctrl.Entities())+1), world.X, world.Y)
	m.ctrl.AddEntity(e)
	m.form = newEntityForm(e)
	return m, nil
}

func (m Model) requestSuggestions() (tea.Model, tea.Cmd) {
	e, ok := m.singleSelectedEntity()
	if !ok {
		return m.withStatus("select one entity for suggestions", true)
	}
	if m.loading[e.ID] {
		return m, nil
	}
	m.loading[e.ID] = true
	provider := m.provider
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()
		attrs, err := provider.Suggest(ctx, e)
		return suggestMsg{entityID: e.ID, attrs: attrs, err: err}
	}
}

// autoLayout arranges every entity on a square-ish grid anchored at the
// top-left of the current content bounds.
func (m Model) autoLayout() (tea.Model, tea.Cmd) {
	ents := m.ctrl.Entities()
	if len(ents) == 0 {
		return m, nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(ents)))))
	originX, originY := ents[0].X, ents[0].Y
	for _, e := range ents[1:] {
		originX = math.Min(originX, e.X)
		originY = math.Min(originY, e.Y)
	}
	out := make([]model.EntityNode, len(ents))
	copy(out, ents)
	for i := range out {
		out[i].X = originX + float64(i%cols)*layoutSpacingX
		out[i].Y = originY + float64(i/cols)*layoutSpacingY
	}
	m.sess.ApplyBatch(out, m.ctrl.Relationships())
	m.ctrl.SetModel(out, m.ctrl.Relationships())
	return m.withStatus("arranged entities", false)
}

func (m Model) exportPNG() (tea.Model, tea.Cmd) {
	d := m.sess.diagram
	path := m.cfg.ExportPath(sanitizeFilename(d.Name) + ".png")
	ctx := m.ctrl.Context()
	return m, func() tea.Msg {
		return exportedMsg{path: path, err: export.ToPNG(d, ctx, path)}
	}
}

func (m Model) exportText() (tea.Model, tea.Cmd) {
	d := m.sess.diagram
	path := m.cfg.ExportPath(sanitizeFilename(d.Name) + ".txt")
	ctx := m.ctrl.Context()
	return m, func() tea.Msg {
		return exportedMsg{path: path, err: export.ToText(d, ctx, path)}
	}
}

// copyDDL puts the generated CREATE TABLE script on the system clipboard.
func (m Model) copyDDL() (tea.Model, tea.Cmd) {
	script := sqlgen.Generate(m.sess.diagram)
	if err := clipboard.WriteAll(script); err != nil {
		return m.withStatus("clipboard unavailable: "+err.Error(), true)
	}
	return m.withStatus("SQL copied to clipboard", false)
}

func (m Model) snapshotVersion() (tea.Model, tea.Cmd) {
	label := time.Now().Format("2006-01-02 15:04:05")
	if err := m.store.SnapshotVersion(m.sess.diagram, label); err != nil {
		return m.withStatus("snapshot failed: "+err.Error(), true)
	}
	return m.withStatus("version saved: "+label, false)
}

func (m Model) cycleCardinality() (tea.Model, tea.Cmd) {
	order := []model.Cardinality{model.OneToOne, model.OneToMany, model.ManyToOne, model.ManyToMany}
	return m.updateSelectedRel(func(r *model.Relationship) {
		for i, c := range order {
			if r.Cardinality == c {
				r.Cardinality = order[(i+1)%len(order)]
				return
			}
		}
		r.Cardinality = order[0]
	})
}

func (m Model) cycleLineStyle() (tea.Model, tea.Cmd) {
	order := []model.LineStyle{model.StyleStraight, model.StyleCurve, model.StyleStep}
	return m.updateSelectedRel(func(r *model.Relationship) {
		for i, s := range order {
			if r.Style == s {
				r.Style = order[(i+1)%len(order)]
				return
			}
		}
		r.Style = order[0]
	})
}

func (m Model) updateSelectedRel(mutate func(*model.Relationship)) (tea.Model, tea.Cmd) {
	id := m.ctrl.SelectedRelationship()
	if id == "" {
		return m, nil
	}
	rels := make([]model.Relationship, len(m.ctrl.Relationships()))
	copy(rels, m.ctrl.Relationships())
	for i := range rels {
		if rels[i].ID == id {
			mutate(&rels[i])
			break
		}
	}
	m.sess.ApplyBatch(m.ctrl.Entities(), rels)
	m.ctrl.SetModel(m.ctrl.Entities(), rels)
	return m, nil
}

func (m Model) editLabel() (tea.Model, tea.Cmd) {
	id := m.ctrl.SelectedRelationship()
	if id == "" {
		return m, nil
	}
	for _, r := range m.ctrl.Relationships() {
		if r.ID == id {
			m.labelEdit = newLabelForm(r.Label)
			return m, nil
		}
	}
	return m, nil
}

func (m Model) setKind(key string) (tea.Model, tea.Cmd) {
	kinds := map[string]model.RepresentationKind{
		"1": model.KindConceptual,
		"2": model.KindLogical,
		"3": model.KindPhysical,
		"4": model.KindDimensional,
	}
	kind := kinds[key]
	m.sess.diagram.Kind = kind
	m.sess.dirty = true
	ctx := m.ctrl.Context()
	ctx.Kind = kind
	m.ctrl.SetContext(ctx)
	return m.withStatus("view: "+string(kind), false)
}

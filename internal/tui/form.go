package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

func newAttributeID() string { return uuid.New().String() }

// entityForm is the modal editor for one entity: name, logical name and the
// attribute rows. Focus walks the inputs; attribute flags toggle in place.
type entityForm struct {
	entity model.EntityNode
	inputs []textinput.Model
	focus  int
}

const formFixedInputs = 2 // name, logical name

func newEntityForm(e model.EntityNode) *entityForm {
	f := &entityForm{entity: e.Clone()}
	f.rebuildInputs()
	f.setFocus(0)
	return f
}

func (f *entityForm) rebuildInputs() {
	f.inputs = f.inputs[:0]
	f.inputs = append(f.inputs, newInput("name", f.entity.Name, 40))
	f.inputs = append(f.inputs, newInput("logical name", f.entity.LogicalName, 40))
	for _, a := range f.entity.Attributes {
		f.inputs = append(f.inputs, newInput("attribute", a.Name, 30))
		f.inputs = append(f.inputs, newInput("type", a.DataType, 20))
	}
}

func newInput(placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.SetValue(value)
	return in
}

func (f *entityForm) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	if i < 0 {
		i = len(f.inputs) - 1
	}
	i %= len(f.inputs)
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.inputs[i].Focus()
	f.focus = i
}

// attrIndex maps the focused input to an attribute row, or -1 for the fixed
// fields.
func (f *entityForm) attrIndex() int {
	if f.focus < formFixedInputs {
		return -1
	}
	return (f.focus - formFixedInputs) / 2
}

// collect writes the input values back into the entity.
func (f *entityForm) collect() model.EntityNode {
	e := f.entity
	e.Name = strings.TrimSpace(f.inputs[0].Value())
	if e.Name == "" {
		e.Name = f.entity.Name
	}
	e.LogicalName = strings.TrimSpace(f.inputs[1].Value())
	for i := range e.Attributes {
		base := formFixedInputs + i*2
		e.Attributes[i].Name = strings.TrimSpace(f.inputs[base].Value())
		e.Attributes[i].DataType = strings.TrimSpace(f.inputs[base+1].Value())
	}
	return e
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "enter":
		e := f.collect()
		m.form = nil
		m.ctrl.ReplaceEntity(e)
		return m, nil

	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, nil

	case "ctrl+n":
		f.entity = f.collect()
		f.entity.Attributes = append(f.entity.Attributes, model.Attribute{
			ID:       newAttributeID(),
			Nullable: true,
		})
		f.rebuildInputs()
		f.setFocus(formFixedInputs + (len(f.entity.Attributes)-1)*2)
		return m, nil

	case "ctrl+d":
		if i := f.attrIndex(); i >= 0 {
			f.entity = f.collect()
			f.entity.Attributes = append(f.entity.Attributes[:i], f.entity.Attributes[i+1:]...)
			f.rebuildInputs()
			f.setFocus(0)
		}
		return m, nil

	case "ctrl+k":
		if i := f.attrIndex(); i >= 0 {
			f.entity = f.collect()
			f.entity.Attributes[i].PrimaryKey = !f.entity.Attributes[i].PrimaryKey
			if f.entity.Attributes[i].PrimaryKey {
				f.entity.Attributes[i].Nullable = false
			}
		}
		return m, nil

	case "ctrl+u":
		if i := f.attrIndex(); i >= 0 {
			f.entity = f.collect()
			f.entity.Attributes[i].Nullable = !f.entity.Attributes[i].Nullable
		}
		return m, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

var (
	formFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
	formTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	formHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	formFlag  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (f *entityForm) view() string {
	var b strings.Builder
	b.WriteString(formTitle.Render("Edit entity"))
	b.WriteString("\n\n")
	b.WriteString("Name          " + f.inputs[0].View() + "\n")
	b.WriteString("Logical name  " + f.inputs[1].View() + "\n")
	if len(f.entity.Attributes) > 0 {
		b.WriteString("\nAttributes\n")
	}
	for i, a := range f.entity.Attributes {
		base := formFixedInputs + i*2
		flags := ""
		if a.PrimaryKey {
			flags += formFlag.Render(" PK")
		}
		if !a.Nullable {
			flags += formFlag.Render(" NOT NULL")
		}
		b.WriteString("  " + f.inputs[base].View() + " " + f.inputs[base+1].View() + flags + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formHint.Render("tab next · ctrl+n add · ctrl+d remove · ctrl+k pk · ctrl+u null · enter save · esc cancel"))
	return formFrame.Render(b.String())
}

// labelForm is the one-line modal for a relationship label.
type labelForm struct {
	input textinput.Model
}

func newLabelForm(value string) *labelForm {
	in := newInput("label", value, 60)
	in.Focus()
	return &labelForm{input: in}
}

func (m Model) updateLabelEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.labelEdit = nil
		return m, nil
	case "enter":
		label := strings.TrimSpace(m.labelEdit.input.Value())
		m.labelEdit = nil
		return m.updateSelectedRel(func(r *model.Relationship) { r.Label = label })
	}
	var cmd tea.Cmd
	m.labelEdit.input, cmd = m.labelEdit.input.Update(msg)
	return m, cmd
}

func (f *labelForm) view() string {
	return formFrame.Render(formTitle.Render("Relationship label") + "\n\n" + f.input.View() +
		"\n\n" + formHint.Render("enter save · esc cancel"))
}

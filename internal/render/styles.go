package render

import "github.com/charmbracelet/lipgloss"

// styleID tags a grid cell with the visual class it belongs to. Runs of the
// same id render as one lipgloss span.
type styleID uint8

const (
	styleNone styleID = iota
	styleBorder
	styleBorderSelected
	styleHeader
	styleAttr
	styleAttrKey
	styleFooter
	styleRel
	styleRelSelected
	styleLabel
	styleMarquee
	styleHandle
	styleMinimap
	styleMinimapView
	styleLoading
)

// Styles is the precomputed style set for the canvas.
type Styles struct {
	Border         lipgloss.Style
	BorderSelected lipgloss.Style
	Header         lipgloss.Style
	Attr           lipgloss.Style
	AttrKey        lipgloss.Style
	Footer         lipgloss.Style
	Rel            lipgloss.Style
	RelSelected    lipgloss.Style
	Label          lipgloss.Style
	Marquee        lipgloss.Style
	Handle         lipgloss.Style
	Minimap        lipgloss.Style
	MinimapView    lipgloss.Style
	Loading        lipgloss.Style
}

// DefaultStyles returns the default canvas palette.
func DefaultStyles() Styles {
	return Styles{
		Border:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		BorderSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
		Attr:           lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		AttrKey:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Footer:         lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true),
		Rel:            lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		RelSelected:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Label:          lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("60")),
		Marquee:        lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		Handle:         lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Minimap:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		MinimapView:    lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		Loading:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
}

func (s Styles) byID(id styleID) lipgloss.Style {
	switch id {
	case styleBorder:
		return s.Border
	case styleBorderSelected:
		return s.BorderSelected
	case styleHeader:
		return s.Header
	case styleAttr:
		return s.Attr
	case styleAttrKey:
		return s.AttrKey
	case styleFooter:
		return s.Footer
	case styleRel:
		return s.Rel
	case styleRelSelected:
		return s.RelSelected
	case styleLabel:
		return s.Label
	case styleMarquee:
		return s.Marquee
	case styleHandle:
		return s.Handle
	case styleMinimap:
		return s.Minimap
	case styleMinimapView:
		return s.MinimapView
	case styleLoading:
		return s.Loading
	default:
		return lipgloss.NewStyle()
	}
}

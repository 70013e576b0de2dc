// Package sqlgen turns a diagram into CREATE TABLE statements. Output is
// generic SQL; entity and attribute names are lower_snake_cased and data
// types pass through unchanged.
package sqlgen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

// Generate emits one CREATE TABLE per entity, in diagram order, followed by
// ALTER TABLE foreign keys for the relationships that resolve to a primary
// key on the one-side entity.
func Generate(d *model.Diagram) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("-- generated from %s\n", d.Name))
	for i, e := range d.Entities {
		if i > 0 {
			b.WriteString("\n")
		}
		writeTable(&b, e)
	}
	fks := foreignKeys(d)
	if len(fks) > 0 {
		b.WriteString("\n")
		for _, fk := range fks {
			b.WriteString(fk)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, e model.EntityNode) {
	name := TableName(e)
	b.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", name))

	var pks []string
	for i, a := range e.Attributes {
		col := columnName(a.Name)
		typ := a.DataType
		if typ == "" {
			typ = "TEXT"
		}
		line := fmt.Sprintf("    %s %s", col, typ)
		if !a.Nullable {
			line += " NOT NULL"
		}
		if a.PrimaryKey {
			pks = append(pks, col)
		}
		if i < len(e.Attributes)-1 || len(pks) > 0 {
			line += ","
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(pks) > 0 {
		b.WriteString(fmt.Sprintf("    PRIMARY KEY (%s)\n", strings.Join(pks, ", ")))
	} else if len(e.Attributes) == 0 {
		b.WriteString("    id TEXT PRIMARY KEY\n")
	}
	b.WriteString(");\n")
}

// foreignKeys emits ALTER TABLE statements for relationships whose one-side
// entity has a single-column primary key. Anything else gets a comment so
// the modeling gap is visible in the output.
func foreignKeys(d *model.Diagram) []string {
	var out []string
	for _, r := range d.Relationships {
		parent, child, ok := fkEnds(d, r)
		if !ok {
			continue
		}
		pk := singlePrimaryKey(parent)
		if pk == "" {
			out = append(out, fmt.Sprintf("-- skipped FK %s -> %s: no single-column primary key",
				TableName(child), TableName(parent)))
			continue
		}
		col := TableName(parent) + "_" + pk
		out = append(out, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s REFERENCES %s(%s);",
			TableName(child), col, pkType(parent, pk), TableName(parent), pk))
	}
	return out
}

// fkEnds orients the relationship: the FK column lives on the many side.
func fkEnds(d *model.Diagram, r model.Relationship) (parent, child model.EntityNode, ok bool) {
	src, okSrc := model.FindEntity(d.Entities, r.SourceID)
	dst, okDst := model.FindEntity(d.Entities, r.TargetID)
	if !okSrc || !okDst {
		return parent, child, false
	}
	switch r.Cardinality {
	case model.ManyToOne:
		return dst, src, true
	case model.ManyToMany:
		// Join tables are a modeling decision, not a generation one.
		return parent, child, false
	default:
		return src, dst, true
	}
}

func singlePrimaryKey(e model.EntityNode) string {
	name := ""
	for _, a := range e.Attributes {
		if a.PrimaryKey {
			if name != "" {
				return ""
			}
			name = columnName(a.Name)
		}
	}
	return name
}

func pkType(e model.EntityNode, col string) string {
	for _, a := range e.Attributes {
		if columnName(a.Name) == col {
			if a.DataType != "" {
				return a.DataType
			}
			break
		}
	}
	return "TEXT"
}

// TableName lower_snake_cases the entity name.
func TableName(e model.EntityNode) string {
	return columnName(e.Name)
}

func columnName(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		case r == ' ' || r == '-':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	out := b.String()
	if out == "" {
		return "unnamed"
	}
	return out
}

// Package suggest proposes attributes for an entity. The Provider interface
// keeps the TUI independent of where suggestions come from; the built-in
// provider is a name-pattern heuristic so the editor works offline.
package suggest

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

// Provider returns candidate attributes for an entity. Implementations must
// honor ctx cancellation; the editor abandons requests that outlive the
// entity they were made for.
type Provider interface {
	Suggest(ctx context.Context, e model.EntityNode) ([]model.Attribute, error)
}

// Heuristic suggests from common entity-name patterns. It never errors.
type Heuristic struct{}

// patterns map a substring of the entity name to typical columns.
var patterns = []struct {
	key   string
	attrs []model.Attribute
}{
	{"user", []model.Attribute{
		{Name: "email", DataType: "VARCHAR(255)", Nullable: false},
		{Name: "password_hash", DataType: "VARCHAR(255)", Nullable: false},
		{Name: "display_name", DataType: "VARCHAR(100)"},
		{Name: "last_login_at", DataType: "TIMESTAMP"},
	}},
	{"order", []model.Attribute{
		{Name: "status", DataType: "VARCHAR(20)", Nullable: false},
		{Name: "total_amount", DataType: "DECIMAL(10,2)", Nullable: false},
		{Name: "placed_at", DataType: "TIMESTAMP", Nullable: false},
	}},
	{"product", []model.Attribute{
		{Name: "sku", DataType: "VARCHAR(50)", Nullable: false},
		{Name: "price", DataType: "DECIMAL(10,2)", Nullable: false},
		{Name: "description", DataType: "TEXT"},
	}},
	{"invoice", []model.Attribute{
		{Name: "number", DataType: "VARCHAR(30)", Nullable: false},
		{Name: "issued_at", DataType: "TIMESTAMP", Nullable: false},
		{Name: "due_at", DataType: "TIMESTAMP"},
		{Name: "amount", DataType: "DECIMAL(10,2)", Nullable: false},
	}},
	{"address", []model.Attribute{
		{Name: "street", DataType: "VARCHAR(255)"},
		{Name: "city", DataType: "VARCHAR(100)"},
		{Name: "postal_code", DataType: "VARCHAR(20)"},
		{Name: "country", DataType: "VARCHAR(2)"},
	}},
	{"event", []model.Attribute{
		{Name: "kind", DataType: "VARCHAR(50)", Nullable: false},
		{Name: "occurred_at", DataType: "TIMESTAMP", Nullable: false},
		{Name: "payload", DataType: "TEXT"},
	}},
}

// generic covers entities no pattern matches.
var generic = []model.Attribute{
	{Name: "name", DataType: "VARCHAR(100)", Nullable: false},
	{Name: "created_at", DataType: "TIMESTAMP", Nullable: false},
	{Name: "updated_at", DataType: "TIMESTAMP"},
}

func (Heuristic) Suggest(ctx context.Context, e model.EntityNode) ([]model.Attribute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(e.Attributes))
	for _, a := range e.Attributes {
		have[strings.ToLower(a.Name)] = struct{}{}
	}

	name := strings.ToLower(e.Name)
	candidates := generic
	for _, p := range patterns {
		if strings.Contains(name, p.key) {
			candidates = p.attrs
			break
		}
	}
	if !hasPrimaryKey(e) {
		candidates = append([]model.Attribute{{Name: "id", DataType: "UUID", PrimaryKey: true, Nullable: false}}, candidates...)
	}

	var out []model.Attribute
	for _, c := range candidates {
		if _, dup := have[c.Name]; dup {
			continue
		}
		c.ID = uuid.New().String()
		out = append(out, c)
	}
	return out, nil
}

func hasPrimaryKey(e model.EntityNode) bool {
	for _, a := range e.Attributes {
		if a.PrimaryKey {
			return true
		}
	}
	return false
}

// Package store is the injected persistence repository: a single local
// SQLite file holding diagrams and named version snapshots. It is created at
// application start and passed down; there is no package-level singleton.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database file and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS diagrams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'logical',
			viewport_x REAL NOT NULL DEFAULT 0,
			viewport_y REAL NOT NULL DEFAULT 0,
			viewport_zoom REAL NOT NULL DEFAULT 1.0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			diagram_id TEXT NOT NULL REFERENCES diagrams(id),
			name TEXT NOT NULL,
			logical_name TEXT NOT NULL DEFAULT '',
			x REAL NOT NULL DEFAULT 0,
			y REAL NOT NULL DEFAULT 0,
			width REAL NOT NULL DEFAULT 0,
			height REAL NOT NULL DEFAULT 0,
			color TEXT NOT NULL DEFAULT '',
			collapsed INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS attributes (
			id TEXT PRIMARY KEY,
			entity_id TEXT NOT NULL REFERENCES entities(id),
			name TEXT NOT NULL,
			data_type TEXT NOT NULL DEFAULT '',
			primary_key INTEGER NOT NULL DEFAULT 0,
			nullable INTEGER NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS relationships (
			id TEXT PRIMARY KEY,
			diagram_id TEXT NOT NULL REFERENCES diagrams(id),
			source_id TEXT NOT NULL REFERENCES entities(id),
			target_id TEXT NOT NULL REFERENCES entities(id),
			cardinality TEXT NOT NULL DEFAULT 'one_to_many',
			style TEXT NOT NULL DEFAULT 'straight',
			source_marker TEXT NOT NULL DEFAULT '',
			target_marker TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS versions (
			id TEXT PRIMARY KEY,
			diagram_id TEXT NOT NULL REFERENCES diagrams(id),
			label TEXT NOT NULL,
			snapshot_json TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_diagram ON entities(diagram_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attributes_entity ON attributes(entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_relationships_diagram ON relationships(diagram_id)`,
		`CREATE INDEX IF NOT EXISTS idx_versions_diagram ON versions(diagram_id)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SaveDiagram writes the full diagram and viewport in one transaction,
// replacing whatever was stored for it before. Rolls back on any failure.
func (s *Store) SaveDiagram(d *model.Diagram, vp viewport.Viewport) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO diagrams (id, name, kind, viewport_x, viewport_y, viewport_zoom)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			viewport_x = excluded.viewport_x,
			viewport_y = excluded.viewport_y,
			viewport_zoom = excluded.viewport_zoom,
			updated_at = CURRENT_TIMESTAMP`,
		d.ID, d.Name, string(d.Kind), vp.Offset.X, vp.Offset.Y, vp.Zoom)
	if err != nil {
		return fmt.Errorf("upsert diagram: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM attributes WHERE entity_id IN (SELECT id FROM entities WHERE diagram_id = ?)`, d.ID); err != nil {
		return fmt.Errorf("clear attributes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM relationships WHERE diagram_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clear relationships: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entities WHERE diagram_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}

	for i, e := range d.Entities {
		_, err := tx.Exec(`INSERT INTO entities (id, diagram_id, name, logical_name, x, y, width, height, color, collapsed, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, d.ID, e.Name, e.LogicalName, e.X, e.Y, e.Width, e.Height, e.Color, boolInt(e.Collapsed), i)
		if err != nil {
			return fmt.Errorf("insert entity %s: %w", e.Name, err)
		}
		for j, a := range e.Attributes {
			_, err := tx.Exec(`INSERT INTO attributes (id, entity_id, name, data_type, primary_key, nullable, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				a.ID, e.ID, a.Name, a.DataType, boolInt(a.PrimaryKey), boolInt(a.Nullable), j)
			if err != nil {
				return fmt.Errorf("insert attribute %s: %w", a.Name, err)
			}
		}
	}
	for _, r := range d.Relationships {
		_, err := tx.Exec(`INSERT INTO relationships (id, diagram_id, source_id, target_id, cardinality, style, source_marker, target_marker, label)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, d.ID, r.SourceID, r.TargetID, string(r.Cardinality), string(r.Style), string(r.SourceMarker), string(r.TargetMarker), r.Label)
		if err != nil {
			return fmt.Errorf("insert relationship: %w", err)
		}
	}

	return tx.Commit()
}

// LoadDiagram reads a diagram and its saved viewport by id.
func (s *Store) LoadDiagram(id string) (*model.Diagram, viewport.Viewport, error) {
	vp := viewport.Viewport{Zoom: 1}
	d := &model.Diagram{ID: id}
	var kind string
	err := s.conn.QueryRow(`SELECT name, kind, viewport_x, viewport_y, viewport_zoom FROM diagrams WHERE id = ?`, id).
		Scan(&d.Name, &kind, &vp.Offset.X, &vp.Offset.Y, &vp.Zoom)
	if err != nil {
		return nil, vp, fmt.Errorf("load diagram: %w", err)
	}
	d.Kind = model.RepresentationKind(kind)

	rows, err := s.conn.Query(`SELECT id, name, logical_name, x, y, width, height, color, collapsed
		FROM entities WHERE diagram_id = ? ORDER BY sort_order`, id)
	if err != nil {
		return nil, vp, fmt.Errorf("load entities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.EntityNode
		var collapsed int
		if err := rows.Scan(&e.ID, &e.Name, &e.LogicalName, &e.X, &e.Y, &e.Width, &e.Height, &e.Color, &collapsed); err != nil {
			return nil, vp, fmt.Errorf("scan entity: %w", err)
		}
		e.Collapsed = collapsed != 0
		d.Entities = append(d.Entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, vp, fmt.Errorf("iterate entities: %w", err)
	}

	for i := range d.Entities {
		attrs, err := s.loadAttributes(d.Entities[i].ID)
		if err != nil {
			return nil, vp, err
		}
		d.Entities[i].Attributes = attrs
	}

	relRows, err := s.conn.Query(`SELECT id, source_id, target_id, cardinality, style, source_marker, target_marker, label
		FROM relationships WHERE diagram_id = ?`, id)
	if err != nil {
		return nil, vp, fmt.Errorf("load relationships: %w", err)
	}
	defer relRows.Close()
	for relRows.Next() {
		var r model.Relationship
		var card, style, sm, tm string
		if err := relRows.Scan(&r.ID, &r.SourceID, &r.TargetID, &card, &style, &sm, &tm, &r.Label); err != nil {
			return nil, vp, fmt.Errorf("scan relationship: %w", err)
		}
		r.Cardinality = model.Cardinality(card)
		r.Style = model.LineStyle(style)
		r.SourceMarker = model.MarkerKind(sm)
		r.TargetMarker = model.MarkerKind(tm)
		d.Relationships = append(d.Relationships, r)
	}
	if err := relRows.Err(); err != nil {
		return nil, vp, fmt.Errorf("iterate relationships: %w", err)
	}

	// Stored data may predate an entity deletion that raced a crash.
	d.Relationships = model.PruneDangling(d.Entities, d.Relationships)
	return d, vp, nil
}

func (s *Store) loadAttributes(entityID string) ([]model.Attribute, error) {
	rows, err := s.conn.Query(`SELECT id, name, data_type, primary_key, nullable
		FROM attributes WHERE entity_id = ? ORDER BY sort_order`, entityID)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	defer rows.Close()
	var out []model.Attribute
	for rows.Next() {
		var a model.Attribute
		var pk, nullable int
		if err := rows.Scan(&a.ID, &a.Name, &a.DataType, &pk, &nullable); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		a.PrimaryKey = pk != 0
		a.Nullable = nullable != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

// DiagramInfo is a row in the diagram list.
type DiagramInfo struct {
	ID        string
	Name      string
	Kind      model.RepresentationKind
	UpdatedAt time.Time
}

// ListDiagrams returns every stored diagram, most recently updated first.
func (s *Store) ListDiagrams() ([]DiagramInfo, error) {
	rows, err := s.conn.Query(`SELECT id, name, kind, updated_at FROM diagrams ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer rows.Close()
	var out []DiagramInfo
	for rows.Next() {
		var info DiagramInfo
		var kind string
		if err := rows.Scan(&info.ID, &info.Name, &kind, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan diagram: %w", err)
		}
		info.Kind = model.RepresentationKind(kind)
		out = append(out, info)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SnapshotVersion stores a labeled JSON snapshot of the diagram.
func (s *Store) SnapshotVersion(d *model.Diagram, label string) error {
	blob, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.conn.Exec(`INSERT INTO versions (id, diagram_id, label, snapshot_json) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), d.ID, label, string(blob))
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

// VersionInfo is a row in the version list.
type VersionInfo struct {
	ID        string
	Label     string
	CreatedAt time.Time
}

// ListVersions returns the saved versions of a diagram, newest first.
func (s *Store) ListVersions(diagramID string) ([]VersionInfo, error) {
	rows, err := s.conn.Query(`SELECT id, label, created_at FROM versions WHERE diagram_id = ? ORDER BY created_at DESC`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()
	var out []VersionInfo
	for rows.Next() {
		var v VersionInfo
		if err := rows.Scan(&v.ID, &v.Label, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RestoreVersion decodes the stored snapshot for a version id.
func (s *Store) RestoreVersion(versionID string) (*model.Diagram, error) {
	var blob string
	if err := s.conn.QueryRow(`SELECT snapshot_json FROM versions WHERE id = ?`, versionID).Scan(&blob); err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}
	var d model.Diagram
	if err := json.Unmarshal([]byte(blob), &d); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &d, nil
}

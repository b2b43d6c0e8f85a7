// Package store persists chart wrappers in SQLite, keyed by name.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/logger"
)

// ErrNotFound is returned when no chart has the requested name.
var ErrNotFound = errors.New("chart not found")

const (
	schemaQuery = `
		CREATE TABLE IF NOT EXISTS charts (
			name       TEXT PRIMARY KEY,
			chart_type TEXT NOT NULL,
			spec       TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`

	saveQuery = `
		INSERT INTO charts (name, chart_type, spec, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			chart_type = excluded.chart_type,
			spec = excluded.spec,
			updated_at = excluded.updated_at`

	loadQuery   = `SELECT spec FROM charts WHERE name = ?`
	listQuery   = `SELECT name, chart_type, updated_at FROM charts ORDER BY name`
	deleteQuery = `DELETE FROM charts WHERE name = ?`
)

// Entry describes one stored chart.
type Entry struct {
	Name      string
	ChartType string
	UpdatedAt time.Time
}

// Store is a chart table in a SQL database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at path.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if path == ":memory:" {
		// every pooled connection would see its own empty database
		db.SetMaxOpenConns(1)
	}
	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.ComponentLogger("store").Debugw("store opened", logger.FieldPath, path)
	return s, nil
}

// New wraps db and creates the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schemaQuery); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores w under name, replacing any previous chart.
func (s *Store) Save(ctx context.Context, name string, w *chart.Wrapper) error {
	if name == "" {
		return errors.New("empty chart name")
	}
	spec, err := w.ToJSON()
	if err != nil {
		return errors.Wrapf(err, "encode chart %q", name)
	}
	_, err = s.db.ExecContext(ctx, saveQuery, name, w.ChartType(), spec, s.now().UTC())
	return errors.Wrapf(err, "save chart %q", name)
}

// Load returns the chart stored under name.
func (s *Store) Load(ctx context.Context, name string, opts ...chart.Option) (*chart.Wrapper, error) {
	var spec string
	err := s.db.QueryRowContext(ctx, loadQuery, name).Scan(&spec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load chart %q", name)
	}
	w, err := chart.Parse([]byte(spec), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "decode chart %q", name)
	}
	return w, nil
}

// List returns all stored charts ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list charts")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.ChartType, &e.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan chart")
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "list charts")
}

// Delete removes the chart stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, deleteQuery, name)
	if err != nil {
		return errors.Wrapf(err, "delete chart %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete chart %q", name)
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}

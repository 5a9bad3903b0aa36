package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Identifiable constrains the generic store to entities with an int64 primary
// key and audit timestamps (models.Record provides both).
type Identifiable[T any] interface {
	*T
	GetID() int64
	SetID(int64)
	Touch(time.Time)
}

// Mapping binds an entity to its table. Columns lists every named column
// except id; the store derives select, insert and update statements from it.
type Mapping struct {
	Table   string
	Columns []string
}

// QueryObserver receives the wall-clock duration of each statement a store
// runs, labelled "<table>.<operation>".
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Store is a typed collection over one table. It is the persistence gateway
// every repository composes; entity repositories add their own joins and
// uniqueness probes on top.
type Store[T any, PT Identifiable[T]] struct {
	db  *sqlx.DB
	m   Mapping
	obs QueryObserver
}

// NewStore builds a store for the given table mapping.
func NewStore[T any, PT Identifiable[T]](db *sqlx.DB, m Mapping) *Store[T, PT] {
	return &Store[T, PT]{db: db, m: m}
}

// DB exposes the underlying pool for repositories composing the store.
func (s *Store[T, PT]) DB() *sqlx.DB { return s.db }

// Instrument attaches a query observer. Stores run unobserved until one is
// set, which keeps test wiring minimal.
func (s *Store[T, PT]) Instrument(obs QueryObserver) {
	s.obs = obs
}

// observe is meant to be deferred at the top of a query method with the
// method's start time.
func (s *Store[T, PT]) observe(op string, start time.Time) {
	if s.obs != nil {
		s.obs.ObserveDBQuery(s.m.Table+"."+op, time.Since(start))
	}
}

func (s *Store[T, PT]) selectColumns() string {
	return "id, " + strings.Join(s.m.Columns, ", ")
}

func (s *Store[T, PT]) updateColumns() []string {
	cols := make([]string, 0, len(s.m.Columns))
	for _, c := range s.m.Columns {
		if c == "created_at" {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// List returns every row ordered by id. An empty table yields an empty slice.
func (s *Store[T, PT]) List(ctx context.Context) ([]T, error) {
	defer s.observe("list", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", s.selectColumns(), s.m.Table)
	items := []T{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.m.Table, err)
	}
	return items, nil
}

// FindByID loads a single row. sql.ErrNoRows passes through for the caller
// to translate.
func (s *Store[T, PT]) FindByID(ctx context.Context, id int64) (*T, error) {
	defer s.observe("find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.selectColumns(), s.m.Table)
	var item T
	if err := s.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Find returns rows matching every column/value pair in the filter. Keys not
// in the table mapping are rejected before touching the database.
func (s *Store[T, PT]) Find(ctx context.Context, filter map[string]interface{}) ([]T, error) {
	defer s.observe("find", time.Now())
	allowed := make(map[string]bool, len(s.m.Columns))
	for _, c := range s.m.Columns {
		allowed[c] = true
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		if !allowed[k] {
			return nil, fmt.Errorf("find %s: unknown column %q", s.m.Table, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", k, len(args)+1))
		args = append(args, filter[k])
	}

	query := fmt.Sprintf("SELECT %s FROM %s", s.selectColumns(), s.m.Table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	items := []T{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", s.m.Table, err)
	}
	return items, nil
}

// Exists reports whether a row with the id is present.
func (s *Store[T, PT]) Exists(ctx context.Context, id int64) (bool, error) {
	defer s.observe("exists", time.Now())
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = $1 LIMIT 1", s.m.Table)
	var one int
	if err := s.db.GetContext(ctx, &one, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("exists %s: %w", s.m.Table, err)
	}
	return true, nil
}

// Insert persists the entity and writes the generated id back onto it.
func (s *Store[T, PT]) Insert(ctx context.Context, entity PT) error {
	defer s.observe("insert", time.Now())
	entity.Touch(time.Now().UTC())

	named := make([]string, len(s.m.Columns))
	for i, c := range s.m.Columns {
		named[i] = ":" + c
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		s.m.Table, strings.Join(s.m.Columns, ", "), strings.Join(named, ", "))

	rows, err := s.db.NamedQueryContext(ctx, query, entity)
	if err != nil {
		return fmt.Errorf("insert %s: %w", s.m.Table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("insert %s: no id returned", s.m.Table)
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return fmt.Errorf("insert %s: scan id: %w", s.m.Table, err)
	}
	entity.SetID(id)
	return nil
}

// Update replaces every mutable column of the row with the entity's fields.
// Returns sql.ErrNoRows when the id does not exist.
func (s *Store[T, PT]) Update(ctx context.Context, id int64, entity PT) error {
	defer s.observe("update", time.Now())
	entity.SetID(id)
	entity.Touch(time.Now().UTC())

	assignments := make([]string, 0, len(s.m.Columns))
	for _, c := range s.updateColumns() {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", c, c))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", s.m.Table, strings.Join(assignments, ", "))

	res, err := s.db.NamedExecContext(ctx, query, entity)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.m.Table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: rows affected: %w", s.m.Table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the row. Returns sql.ErrNoRows when nothing was deleted.
func (s *Store[T, PT]) Delete(ctx context.Context, id int64) error {
	defer s.observe("delete", time.Now())
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.m.Table)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.m.Table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: rows affected: %w", s.m.Table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

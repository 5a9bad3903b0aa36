package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/levis-creator/college-system-api/internal/repository"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type crudStore[T any, PT repository.Identifiable[T]] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Find(ctx context.Context, filter map[string]interface{}) ([]T, error)
	Insert(ctx context.Context, entity PT) error
	Update(ctx context.Context, id int64, entity PT) error
	Delete(ctx context.Context, id int64) error
}

// CrudService implements uniform create/read/update/delete semantics over any
// identifiable entity. Entities without domain rules (classrooms, academic
// years) are served by an instance of this service directly; richer entities
// layer their own service on top of the same store.
//
// Update here is full-replace: every mutable column takes the incoming
// entity's value. Domain services that need field-by-field merge implement it
// themselves.
type CrudService[T any, PT repository.Identifiable[T]] struct {
	store  crudStore[T, PT]
	name   string
	logger *zap.Logger
}

// NewCrudService constructs a CrudService for one entity type. The name is
// used in error messages ("classroom not found").
func NewCrudService[T any, PT repository.Identifiable[T]](store crudStore[T, PT], name string, logger *zap.Logger) *CrudService[T, PT] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CrudService[T, PT]{store: store, name: name, logger: logger}
}

// GetAll returns every row. An empty table is a success with an empty list.
func (s *CrudService[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list "+s.name+"s")
	}
	return items, nil
}

// Get returns a single row by id.
func (s *CrudService[T, PT]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, s.name+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+s.name)
	}
	return item, nil
}

// Find returns rows matching the column filter; an empty result set is
// reported as not found.
func (s *CrudService[T, PT]) Find(ctx context.Context, filter map[string]interface{}) ([]T, error) {
	items, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+s.name+" filter")
	}
	if len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no matching "+s.name+"s")
	}
	return items, nil
}

// Add inserts the entity and returns it with its generated id.
func (s *CrudService[T, PT]) Add(ctx context.Context, entity PT) (PT, error) {
	if err := s.store.Insert(ctx, entity); err != nil {
		var zero PT
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create "+s.name)
	}
	return entity, nil
}

// Update replaces every mutable field of the row with the entity's values.
func (s *CrudService[T, PT]) Update(ctx context.Context, id int64, entity PT) (PT, error) {
	var zero PT
	if err := s.store.Update(ctx, id, entity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, appErrors.Clone(appErrors.ErrNotFound, s.name+" not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update "+s.name)
	}
	return entity, nil
}

// Delete removes the row permanently.
func (s *CrudService[T, PT]) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, s.name+" not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete "+s.name)
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type mockClassroomStore struct {
	items  map[int64]models.Classroom
	nextID int64
	fail   error
}

func newMockClassroomStore() *mockClassroomStore {
	return &mockClassroomStore{items: map[int64]models.Classroom{}}
}

func (m *mockClassroomStore) List(ctx context.Context) ([]models.Classroom, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []models.Classroom
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockClassroomStore) FindByID(ctx context.Context, id int64) (*models.Classroom, error) {
	if item, ok := m.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassroomStore) Find(ctx context.Context, filter map[string]interface{}) ([]models.Classroom, error) {
	var out []models.Classroom
	for _, item := range m.items {
		if name, ok := filter["name"]; !ok || item.Name == name {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockClassroomStore) Insert(ctx context.Context, entity *models.Classroom) error {
	if m.fail != nil {
		return m.fail
	}
	m.nextID++
	entity.SetID(m.nextID)
	m.items[m.nextID] = *entity
	return nil
}

func (m *mockClassroomStore) Update(ctx context.Context, id int64, entity *models.Classroom) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	entity.SetID(id)
	m.items[id] = *entity
	return nil
}

func (m *mockClassroomStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func newClassroomCrud(store *mockClassroomStore) *CrudService[models.Classroom, *models.Classroom] {
	return NewCrudService[models.Classroom](store, "classroom", zap.NewNop())
}

func TestCrudServiceAddThenGet(t *testing.T) {
	store := newMockClassroomStore()
	svc := newClassroomCrud(store)

	created, err := svc.Add(context.Background(), &models.Classroom{Name: "Lab 1", ShortName: "L1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lab 1", fetched.Name)
}

func TestCrudServiceGetAllEmptyIsSuccess(t *testing.T) {
	svc := newClassroomCrud(newMockClassroomStore())

	items, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCrudServiceGetUnknownID(t *testing.T) {
	svc := newClassroomCrud(newMockClassroomStore())

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCrudServiceFindEmptyResultIsNotFound(t *testing.T) {
	store := newMockClassroomStore()
	svc := newClassroomCrud(store)
	_, err := svc.Add(context.Background(), &models.Classroom{Name: "Lab 1"})
	require.NoError(t, err)

	_, err = svc.Find(context.Background(), map[string]interface{}{"name": "missing"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCrudServiceUpdateUnknownID(t *testing.T) {
	svc := newClassroomCrud(newMockClassroomStore())

	_, err := svc.Update(context.Background(), 7, &models.Classroom{Name: "Lab 2"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCrudServiceUpdateReplacesFields(t *testing.T) {
	store := newMockClassroomStore()
	svc := newClassroomCrud(store)
	created, err := svc.Add(context.Background(), &models.Classroom{Name: "Lab 1", ShortName: "L1"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &models.Classroom{Name: "Lab 9"})
	require.NoError(t, err)
	assert.Equal(t, "Lab 9", updated.Name)
	// full replace: the omitted short name is cleared, not kept
	assert.Empty(t, store.items[created.ID].ShortName)
}

func TestCrudServiceDelete(t *testing.T) {
	store := newMockClassroomStore()
	svc := newClassroomCrud(store)
	created, err := svc.Add(context.Background(), &models.Classroom{Name: "Lab 1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCrudServiceStorageFailureIsInternal(t *testing.T) {
	store := newMockClassroomStore()
	store.fail = errors.New("connection reset")
	svc := newClassroomCrud(store)

	_, err := svc.GetAll(context.Background())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type mockScheduleRepo struct {
	items  map[int64]models.Schedule
	nextID int64
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{items: map[int64]models.Schedule{}}
}

func (m *mockScheduleRepo) ListDetails(ctx context.Context) ([]models.ScheduleDetail, error) {
	var out []models.ScheduleDetail
	for _, it := range m.items {
		out = append(out, models.ScheduleDetail{Schedule: it})
	}
	return out, nil
}

func (m *mockScheduleRepo) FindDetail(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	if it, ok := m.items[id]; ok {
		return &models.ScheduleDetail{Schedule: it}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	if it, ok := m.items[id]; ok {
		return &it, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Insert(ctx context.Context, entity *models.Schedule) error {
	m.nextID++
	entity.SetID(m.nextID)
	m.items[m.nextID] = *entity
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, id int64, entity *models.Schedule) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	entity.SetID(id)
	m.items[id] = *entity
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func newTestScheduleService(repo *mockScheduleRepo) *ScheduleService {
	return NewScheduleService(repo,
		staticChecker{1: true}, // course units
		staticChecker{1: true}, // classrooms
		staticChecker{1: true}, // timetables
		nil, nil)
}

func validSlot() models.ScheduleRequest {
	return models.ScheduleRequest{
		Day:          models.Monday,
		StartTime:    "08:00",
		EndTime:      "10:00",
		CourseUnitID: 1,
		ClassroomID:  1,
	}
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestScheduleServiceCreate(t *testing.T) {
	svc := newTestScheduleService(newMockScheduleRepo())

	slot, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)
	assert.Equal(t, int64(1), slot.ID)
	assert.Equal(t, models.Monday, slot.Day)
}

func TestScheduleServiceCreateBadTimeFormat(t *testing.T) {
	svc := newTestScheduleService(newMockScheduleRepo())

	for _, start := range []string{"8:00", "08:60", "24:00", "0800", "morning"} {
		req := validSlot()
		req.StartTime = start
		_, err := svc.Create(context.Background(), req)
		requireValidationError(t, err)
	}
}

func TestScheduleServiceCreateStartNotBeforeEnd(t *testing.T) {
	svc := newTestScheduleService(newMockScheduleRepo())

	req := validSlot()
	req.StartTime = "10:00"
	req.EndTime = "10:00"
	_, err := svc.Create(context.Background(), req)
	requireValidationError(t, err)

	req.StartTime = "11:00"
	_, err = svc.Create(context.Background(), req)
	requireValidationError(t, err)
}

func TestScheduleServiceCreateUnknownWeekday(t *testing.T) {
	svc := newTestScheduleService(newMockScheduleRepo())

	req := validSlot()
	req.Day = "FUNDAY"
	_, err := svc.Create(context.Background(), req)
	requireValidationError(t, err)
}

func TestScheduleServiceCreateUnknownReferences(t *testing.T) {
	svc := newTestScheduleService(newMockScheduleRepo())

	req := validSlot()
	req.CourseUnitID = 9
	_, err := svc.Create(context.Background(), req)
	requireValidationError(t, err)

	req = validSlot()
	req.ClassroomID = 9
	_, err = svc.Create(context.Background(), req)
	requireValidationError(t, err)

	req = validSlot()
	badTimetable := int64(9)
	req.TimetableID = &badTimetable
	_, err = svc.Create(context.Background(), req)
	requireValidationError(t, err)
}

func TestScheduleServiceUpdateMergeRevalidates(t *testing.T) {
	repo := newMockScheduleRepo()
	svc := newTestScheduleService(repo)

	slot, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)

	// shifting only the start past the kept end must fail
	start := "10:30"
	_, err = svc.Update(context.Background(), slot.ID, models.ScheduleUpdate{StartTime: &start})
	requireValidationError(t, err)

	// a valid partial change keeps the other fields
	start = "09:00"
	updated, err := svc.Update(context.Background(), slot.ID, models.ScheduleUpdate{StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "10:00", updated.EndTime)
	assert.Equal(t, models.Monday, updated.Day)
}

func TestScheduleServiceUpdateUnknownID(t *testing.T) {
	svc := newTestScheduleService(newMockScheduleRepo())

	day := models.Friday
	_, err := svc.Update(context.Background(), 42, models.ScheduleUpdate{Day: &day})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScheduleServiceDelete(t *testing.T) {
	repo := newMockScheduleRepo()
	svc := newTestScheduleService(repo)

	slot, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), slot.ID))

	err = svc.Delete(context.Background(), slot.ID)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

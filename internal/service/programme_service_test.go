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

type mockProgrammeRepo struct {
	items  map[int64]models.Programme
	nextID int64
}

func newMockProgrammeRepo() *mockProgrammeRepo {
	return &mockProgrammeRepo{items: map[int64]models.Programme{}}
}

func (m *mockProgrammeRepo) ListDetails(ctx context.Context) ([]models.ProgrammeDetail, error) {
	var out []models.ProgrammeDetail
	for _, it := range m.items {
		out = append(out, models.ProgrammeDetail{Programme: it})
	}
	return out, nil
}

func (m *mockProgrammeRepo) FindDetail(ctx context.Context, id int64) (*models.ProgrammeDetail, error) {
	if it, ok := m.items[id]; ok {
		return &models.ProgrammeDetail{Programme: it}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgrammeRepo) FindByID(ctx context.Context, id int64) (*models.Programme, error) {
	if it, ok := m.items[id]; ok {
		return &it, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgrammeRepo) Insert(ctx context.Context, entity *models.Programme) error {
	m.nextID++
	entity.SetID(m.nextID)
	m.items[m.nextID] = *entity
	return nil
}

func (m *mockProgrammeRepo) Update(ctx context.Context, id int64, entity *models.Programme) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	entity.SetID(id)
	m.items[id] = *entity
	return nil
}

func (m *mockProgrammeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockProgrammeRepo) ExistsByCodeOrName(ctx context.Context, code, name string, excludeID int64) (bool, error) {
	for _, it := range m.items {
		if it.ID == excludeID {
			continue
		}
		if it.Code == code || it.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func newTestProgrammeService(repo *mockProgrammeRepo) *ProgrammeService {
	return NewProgrammeService(repo, staticChecker{1: true}, nil, nil)
}

func validProgramme() models.ProgrammeRequest {
	return models.ProgrammeRequest{
		Name:         "Computer Science",
		Code:         "BSC-CS",
		Level:        models.LevelDegree,
		Duration:     4,
		DepartmentID: 1,
	}
}

func TestProgrammeServiceCreateStartsActive(t *testing.T) {
	svc := newTestProgrammeService(newMockProgrammeRepo())

	prog, err := svc.Create(context.Background(), validProgramme())
	require.NoError(t, err)
	assert.True(t, prog.Active)
	assert.Equal(t, int64(1), prog.ID)
}

func TestProgrammeServiceCreateUnknownLevel(t *testing.T) {
	svc := newTestProgrammeService(newMockProgrammeRepo())

	req := validProgramme()
	req.Level = "BOOTCAMP"
	_, err := svc.Create(context.Background(), req)
	requireValidationError(t, err)
}

func TestProgrammeServiceCreateUnknownDepartment(t *testing.T) {
	svc := newTestProgrammeService(newMockProgrammeRepo())

	req := validProgramme()
	req.DepartmentID = 9
	_, err := svc.Create(context.Background(), req)
	requireValidationError(t, err)
}

func TestProgrammeServiceCreateCodeOrNameConflict(t *testing.T) {
	repo := newMockProgrammeRepo()
	svc := newTestProgrammeService(repo)

	_, err := svc.Create(context.Background(), validProgramme())
	require.NoError(t, err)

	// same name under a different code still conflicts
	req := validProgramme()
	req.Code = "DIP-CS"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, repo.items, 1)
}

func TestProgrammeServiceUpdateMergesAndValidates(t *testing.T) {
	repo := newMockProgrammeRepo()
	svc := newTestProgrammeService(repo)

	prog, err := svc.Create(context.Background(), validProgramme())
	require.NoError(t, err)

	badDuration := 0
	_, err = svc.Update(context.Background(), prog.ID, models.ProgrammeUpdate{Duration: &badDuration})
	requireValidationError(t, err)

	duration := 3
	level := models.LevelDiploma
	updated, err := svc.Update(context.Background(), prog.ID, models.ProgrammeUpdate{Duration: &duration, Level: &level})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Duration)
	assert.Equal(t, models.LevelDiploma, updated.Level)
	assert.Equal(t, "BSC-CS", updated.Code)
}

func TestProgrammeServiceUpdateKeepingOwnCodeIsNotAConflict(t *testing.T) {
	repo := newMockProgrammeRepo()
	svc := newTestProgrammeService(repo)

	prog, err := svc.Create(context.Background(), validProgramme())
	require.NoError(t, err)

	name := "Computing"
	updated, err := svc.Update(context.Background(), prog.ID, models.ProgrammeUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Computing", updated.Name)
}

func TestProgrammeServiceDeleteUnknown(t *testing.T) {
	svc := newTestProgrammeService(newMockProgrammeRepo())

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

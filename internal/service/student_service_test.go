package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type mockStudentRepo struct {
	students     map[int64]models.Student
	users        map[string]models.User
	roleGrants   map[string]string
	nextID       int64
	lastRoleName string
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{
		students:   map[int64]models.Student{},
		users:      map[string]models.User{},
		roleGrants: map[string]string{},
	}
}

func (m *mockStudentRepo) detail(st models.Student) models.StudentDetail {
	d := models.StudentDetail{Student: st}
	if u, ok := m.users[st.UserID]; ok {
		d.FirstName = u.FirstName
		d.LastName = u.LastName
		d.Email = u.Email
	}
	return d
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var out []models.StudentDetail
	for _, st := range m.students {
		if filter.ActiveOnly && !st.Active {
			continue
		}
		if filter.DepartmentID != nil {
			if st.DepartmentID == nil || *st.DepartmentID != *filter.DepartmentID {
				continue
			}
		}
		out = append(out, m.detail(st))
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindDetail(ctx context.Context, id int64) (*models.StudentDetail, error) {
	if st, ok := m.students[id]; ok {
		d := m.detail(st)
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if st, ok := m.students[id]; ok {
		return &st, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Update(ctx context.Context, id int64, entity *models.Student) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	entity.SetID(id)
	m.students[id] = *entity
	return nil
}

func (m *mockStudentRepo) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	for _, st := range m.students {
		if st.NationalID == nationalID && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByAdmissionNo(ctx context.Context, admissionNo string, excludeID int64) (bool, error) {
	for _, st := range m.students {
		if st.AdmissionNo == admissionNo && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) CreateWithUser(ctx context.Context, student *models.Student, user *models.User, roleName string) error {
	m.users[user.ID] = *user
	m.roleGrants[user.ID] = roleName
	m.lastRoleName = roleName
	m.nextID++
	student.SetID(m.nextID)
	m.students[m.nextID] = *student
	return nil
}

func (m *mockStudentRepo) Deactivate(ctx context.Context, id int64) error {
	st, ok := m.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	st.Active = false
	m.students[id] = st
	return nil
}

func (m *mockStudentRepo) UpdateDepartment(ctx context.Context, id, departmentID int64) error {
	st, ok := m.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	st.DepartmentID = &departmentID
	m.students[id] = st
	return nil
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

type staticChecker map[int64]bool

func (s staticChecker) Exists(ctx context.Context, id int64) (bool, error) {
	return s[id], nil
}

func newTestStudentService(repo *mockStudentRepo, departments, programmes staticChecker) *StudentService {
	return NewStudentService(repo, repo, departments, programmes, validator.New(), zap.NewNop())
}

func validAdmission() models.StudentCreateRequest {
	deptID := int64(1)
	return models.StudentCreateRequest{
		FirstName:    "Brian",
		LastName:     "Otieno",
		Email:        "brian@example.com",
		NationalID:   "12345678",
		AdmissionNo:  "ADM-001",
		DepartmentID: &deptID,
	}
}

func TestStudentServiceCreateProvisionsUserAccount(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true}, staticChecker{})

	student, err := svc.Create(context.Background(), validAdmission())
	require.NoError(t, err)
	assert.True(t, student.Active)
	assert.Equal(t, "brian@example.com", student.Email)
	assert.Equal(t, models.RoleStudent, repo.lastRoleName)

	user := repo.users[student.UserID]
	// initial password is the national id
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("12345678")))
	assert.False(t, student.AdmissionDate.IsZero())
}

func TestStudentServiceCreateUnknownDepartment(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{}, staticChecker{})

	_, err := svc.Create(context.Background(), validAdmission())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.students)
}

func TestStudentServiceCreateDuplicateNationalID(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true}, staticChecker{})

	_, err := svc.Create(context.Background(), validAdmission())
	require.NoError(t, err)

	second := validAdmission()
	second.Email = "other@example.com"
	second.AdmissionNo = "ADM-002"
	_, err = svc.Create(context.Background(), second)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true}, staticChecker{})

	_, err := svc.Create(context.Background(), validAdmission())
	require.NoError(t, err)

	second := validAdmission()
	second.NationalID = "87654321"
	second.AdmissionNo = "ADM-002"
	_, err = svc.Create(context.Background(), second)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestStudentServiceDeactivateKeepsRecordReadable(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true}, staticChecker{})

	student, err := svc.Create(context.Background(), validAdmission())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), student.ID))

	fetched, err := svc.Get(context.Background(), student.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)

	active, _, err := svc.ListActive(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, _, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStudentServiceReactivationRejected(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true}, staticChecker{})

	student, err := svc.Create(context.Background(), validAdmission())
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), student.ID))

	active := true
	_, err = svc.Update(context.Background(), student.ID, models.StudentUpdate{Active: &active})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceChangeDepartment(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true, 2: true}, staticChecker{})

	student, err := svc.Create(context.Background(), validAdmission())
	require.NoError(t, err)

	moved, err := svc.ChangeDepartment(context.Background(), student.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, moved.DepartmentID)
	assert.Equal(t, int64(2), *moved.DepartmentID)

	_, err = svc.ChangeDepartment(context.Background(), student.ID, 9)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceListByDepartmentUnknown(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo, staticChecker{1: true}, staticChecker{})

	_, _, err := svc.ListByDepartment(context.Background(), 9, models.StudentFilter{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

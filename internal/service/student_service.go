package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindDetail(ctx context.Context, id int64) (*models.StudentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, id int64, entity *models.Student) error
	ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error)
	ExistsByAdmissionNo(ctx context.Context, admissionNo string, excludeID int64) (bool, error)
	CreateWithUser(ctx context.Context, student *models.Student, user *models.User, roleName string) error
	Deactivate(ctx context.Context, id int64) error
	UpdateDepartment(ctx context.Context, id, departmentID int64) error
}

type studentUserSource interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// StudentService manages the student lifecycle. Admitting a student
// provisions the linked user account in the same transaction; deletion is a
// one-way soft delete that keeps the record readable by id.
type StudentService struct {
	repo        studentRepository
	users       studentUserSource
	departments existsChecker
	programmes  existsChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewStudentService(repo studentRepository, users studentUserSource, departments, programmes existsChecker, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{
		repo:        repo,
		users:       users,
		departments: departments,
		programmes:  programmes,
		validator:   validate,
		logger:      logger,
	}
}

// List returns students matching the filter plus pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListActive returns only students that have not been deactivated.
func (s *StudentService) ListActive(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	filter.ActiveOnly = true
	return s.List(ctx, filter)
}

// ListByDepartment returns the students of one department. The department
// must exist even when it currently has no students.
func (s *StudentService) ListByDepartment(ctx context.Context, departmentID int64, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	ok, err := s.departments.Exists(ctx, departmentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
	}
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
	}
	filter.DepartmentID = &departmentID
	return s.List(ctx, filter)
}

// Get returns one student by id, deactivated ones included.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

func (s *StudentService) checkRefs(ctx context.Context, departmentID, programmeID *int64) error {
	if departmentID != nil {
		ok, err := s.departments.Exists(ctx, *departmentID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("department %d does not exist", *departmentID))
		}
	}
	if programmeID != nil {
		ok, err := s.programmes.Exists(ctx, *programmeID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check programme")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("programme %d does not exist", *programmeID))
		}
	}
	return nil
}

func (s *StudentService) checkUniqueness(ctx context.Context, nationalID, admissionNo string, excludeID int64) error {
	if nationalID != "" {
		taken, err := s.repo.ExistsByNationalID(ctx, nationalID, excludeID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check national id")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrConflict, "a student with that national id already exists")
		}
	}
	if admissionNo != "" {
		taken, err := s.repo.ExistsByAdmissionNo(ctx, admissionNo, excludeID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admission number")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrConflict, "a student with that admission number already exists")
		}
	}
	return nil
}

// Create admits a student and provisions their user account in one
// transaction. The account gets the STUDENT role and the national id as its
// initial password.
func (s *StudentService) Create(ctx context.Context, req models.StudentCreateRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.checkRefs(ctx, req.DepartmentID, req.ProgrammeID); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.AdmissionNo, 0); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a user with that email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check user email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NationalID), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admissionDate := req.AdmissionDate
	if admissionDate.IsZero() {
		admissionDate = time.Now().UTC()
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	student := &models.Student{
		NationalID:    req.NationalID,
		AdmissionNo:   req.AdmissionNo,
		UserID:        user.ID,
		DepartmentID:  req.DepartmentID,
		ProgrammeID:   req.ProgrammeID,
		AdmissionDate: admissionDate,
		Active:        true,
	}

	if err := s.repo.CreateWithUser(ctx, student, user, models.RoleStudent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to admit student")
	}

	s.logger.Info("student admitted",
		zap.Int64("id", student.ID),
		zap.String("admission_no", student.AdmissionNo),
		zap.String("user_id", user.ID))

	return s.Get(ctx, student.ID)
}

// Update patches the student record. Identity fields on the linked user are
// out of scope here.
func (s *StudentService) Update(ctx context.Context, id int64, req models.StudentUpdate) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if err := s.checkRefs(ctx, req.DepartmentID, req.ProgrammeID); err != nil {
		return nil, err
	}

	var nationalID, admissionNo string
	if req.NationalID != nil && *req.NationalID != student.NationalID {
		nationalID = *req.NationalID
	}
	if req.AdmissionNo != nil && *req.AdmissionNo != student.AdmissionNo {
		admissionNo = *req.AdmissionNo
	}
	if err := s.checkUniqueness(ctx, nationalID, admissionNo, id); err != nil {
		return nil, err
	}

	if nationalID != "" {
		student.NationalID = nationalID
	}
	if admissionNo != "" {
		student.AdmissionNo = admissionNo
	}
	if req.DepartmentID != nil {
		student.DepartmentID = req.DepartmentID
	}
	if req.ProgrammeID != nil {
		student.ProgrammeID = req.ProgrammeID
	}
	if req.AdmissionDate != nil {
		student.AdmissionDate = *req.AdmissionDate
	}
	if req.Active != nil {
		// reactivation is not supported; deactivation goes through Deactivate
		if *req.Active && !student.Active {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a deactivated student cannot be reactivated")
		}
		student.Active = *req.Active
	}

	if err := s.repo.Update(ctx, id, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.Get(ctx, id)
}

// Deactivate soft deletes the student. Already-inactive students are a
// no-op success.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	s.logger.Info("student deactivated", zap.Int64("id", id))
	return nil
}

// ChangeDepartment moves the student to a different existing department.
func (s *StudentService) ChangeDepartment(ctx context.Context, id, departmentID int64) (*models.StudentDetail, error) {
	if err := s.checkRefs(ctx, &departmentID, nil); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDepartment(ctx, id, departmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change department")
	}
	return s.Get(ctx, id)
}

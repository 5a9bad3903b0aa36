package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type courseRepository interface {
	ListDetails(ctx context.Context) ([]models.CourseDetail, error)
	FindDetail(ctx context.Context, id int64) (*models.CourseDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Insert(ctx context.Context, entity *models.Course) error
	Update(ctx context.Context, id int64, entity *models.Course) error
	Delete(ctx context.Context, id int64) error
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
}

// CourseService manages courses: unique codes, and every course must point
// at an existing department.
type CourseService struct {
	repo        courseRepository
	departments existsChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewCourseService(repo courseRepository, departments existsChecker, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns every course with its department name resolved.
func (s *CourseService) List(ctx context.Context) ([]models.CourseDetail, error) {
	items, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return items, nil
}

// Get returns one course with department context.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.CourseDetail, error) {
	course, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *CourseService) checkDepartment(ctx context.Context, id int64) error {
	ok, err := s.departments.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("department %d does not exist", id))
	}
	return nil
}

// Create adds a course after verifying code uniqueness and the department.
func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course code %q is already taken", req.Code))
	}

	course := &models.Course{Name: req.Name, Code: req.Code, Credits: req.Credits, DepartmentID: req.DepartmentID}
	if err := s.repo.Insert(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.Int64("id", course.ID), zap.String("code", course.Code))
	return course, nil
}

// Update patches the course. Non-nil fields change; code and department
// changes re-run their checks.
func (s *CourseService) Update(ctx context.Context, id int64, req models.CourseUpdate) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if req.Code != nil && *req.Code != course.Code {
		exists, err := s.repo.ExistsByCode(ctx, *req.Code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course code %q is already taken", *req.Code))
		}
		course.Code = *req.Code
	}
	if req.DepartmentID != nil && *req.DepartmentID != course.DepartmentID {
		if err := s.checkDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		course.DepartmentID = *req.DepartmentID
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}

	if err := s.repo.Update(ctx, id, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes the course permanently.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

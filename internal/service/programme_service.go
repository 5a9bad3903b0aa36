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

type programmeRepository interface {
	ListDetails(ctx context.Context) ([]models.ProgrammeDetail, error)
	FindDetail(ctx context.Context, id int64) (*models.ProgrammeDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Programme, error)
	Insert(ctx context.Context, entity *models.Programme) error
	Update(ctx context.Context, id int64, entity *models.Programme) error
	Delete(ctx context.Context, id int64) error
	ExistsByCodeOrName(ctx context.Context, code, name string, excludeID int64) (bool, error)
}

// ProgrammeService manages award programmes. Both code and name are unique,
// the level must be a known award level, and the owning department must
// exist.
type ProgrammeService struct {
	repo        programmeRepository
	departments existsChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewProgrammeService(repo programmeRepository, departments existsChecker, validate *validator.Validate, logger *zap.Logger) *ProgrammeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProgrammeService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns every programme with department context.
func (s *ProgrammeService) List(ctx context.Context) ([]models.ProgrammeDetail, error) {
	items, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programmes")
	}
	return items, nil
}

// Get returns one programme with department context.
func (s *ProgrammeService) Get(ctx context.Context, id int64) (*models.ProgrammeDetail, error) {
	prog, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}
	return prog, nil
}

func (s *ProgrammeService) checkDepartment(ctx context.Context, id int64) error {
	ok, err := s.departments.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("department %d does not exist", id))
	}
	return nil
}

// Create adds a programme. New programmes start active.
func (s *ProgrammeService) Create(ctx context.Context, req models.ProgrammeRequest) (*models.Programme, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme payload")
	}
	if !models.ValidProgrammeLevel(req.Level) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown programme level %q", req.Level))
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCodeOrName(ctx, req.Code, req.Name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check programme uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a programme with that code or name already exists")
	}

	prog := &models.Programme{
		Name:         req.Name,
		Code:         req.Code,
		Level:        req.Level,
		Duration:     req.Duration,
		DepartmentID: req.DepartmentID,
		Description:  req.Description,
		Active:       true,
	}
	if err := s.repo.Insert(ctx, prog); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create programme")
	}
	s.logger.Info("programme created", zap.Int64("id", prog.ID), zap.String("code", prog.Code))
	return prog, nil
}

// Update patches the programme; non-nil fields change and re-run their
// checks.
func (s *ProgrammeService) Update(ctx context.Context, id int64, req models.ProgrammeUpdate) (*models.Programme, error) {
	prog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}

	code := prog.Code
	name := prog.Name
	if req.Code != nil {
		code = *req.Code
	}
	if req.Name != nil {
		name = *req.Name
	}
	if code != prog.Code || name != prog.Name {
		exists, err := s.repo.ExistsByCodeOrName(ctx, code, name, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check programme uniqueness")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a programme with that code or name already exists")
		}
		prog.Code = code
		prog.Name = name
	}

	if req.Level != nil {
		if !models.ValidProgrammeLevel(*req.Level) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown programme level %q", *req.Level))
		}
		prog.Level = *req.Level
	}
	if req.DepartmentID != nil && *req.DepartmentID != prog.DepartmentID {
		if err := s.checkDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		prog.DepartmentID = *req.DepartmentID
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duration must be positive")
		}
		prog.Duration = *req.Duration
	}
	if req.Description != nil {
		prog.Description = *req.Description
	}
	if req.Active != nil {
		prog.Active = *req.Active
	}

	if err := s.repo.Update(ctx, id, prog); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update programme")
	}
	return prog, nil
}

// Delete removes the programme permanently.
func (s *ProgrammeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete programme")
	}
	return nil
}

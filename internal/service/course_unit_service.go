package service

import (
	"context"
	"fmt"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type courseUnitCodeChecker interface {
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
}

// CourseUnitService layers code uniqueness over the generic CRUD service.
type CourseUnitService struct {
	*CrudService[models.CourseUnit, *models.CourseUnit]
	codes courseUnitCodeChecker
}

func NewCourseUnitService(crud *CrudService[models.CourseUnit, *models.CourseUnit], codes courseUnitCodeChecker) *CourseUnitService {
	return &CourseUnitService{CrudService: crud, codes: codes}
}

func (s *CourseUnitService) checkCode(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.codes.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course unit code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course unit code %q is already taken", code))
	}
	return nil
}

// Add inserts the unit after verifying its code is free.
func (s *CourseUnitService) Add(ctx context.Context, unit *models.CourseUnit) (*models.CourseUnit, error) {
	if unit.Name == "" || unit.Code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and code are required")
	}
	if err := s.checkCode(ctx, unit.Code, 0); err != nil {
		return nil, err
	}
	return s.CrudService.Add(ctx, unit)
}

// Update replaces the unit after re-verifying the code against other rows.
func (s *CourseUnitService) Update(ctx context.Context, id int64, unit *models.CourseUnit) (*models.CourseUnit, error) {
	if unit.Name == "" || unit.Code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and code are required")
	}
	if err := s.checkCode(ctx, unit.Code, id); err != nil {
		return nil, err
	}
	return s.CrudService.Update(ctx, id, unit)
}

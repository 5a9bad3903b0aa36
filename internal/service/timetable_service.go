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

type timetableRepository interface {
	ListDetails(ctx context.Context) ([]models.TimetableDetail, error)
	FindDetail(ctx context.Context, id int64) (*models.TimetableDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Timetable, error)
	Insert(ctx context.Context, entity *models.Timetable) error
	Update(ctx context.Context, id int64, entity *models.Timetable) error
	Delete(ctx context.Context, id int64) error
}

type timetableScheduleSource interface {
	ListByTimetable(ctx context.Context, timetableID int64) ([]models.ScheduleDetail, error)
}

// TimetableService manages timetables and aggregates their slots for reads.
// Deleting a timetable leaves its schedules in place with the link cleared
// by the database.
type TimetableService struct {
	repo          timetableRepository
	schedules     timetableScheduleSource
	academicYears existsChecker
	validator     *validator.Validate
	logger        *zap.Logger
}

func NewTimetableService(repo timetableRepository, schedules timetableScheduleSource, academicYears existsChecker, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TimetableService{
		repo:          repo,
		schedules:     schedules,
		academicYears: academicYears,
		validator:     validate,
		logger:        logger,
	}
}

// List returns every timetable with its academic year label. Slots are not
// expanded on the list view.
func (s *TimetableService) List(ctx context.Context) ([]models.TimetableDetail, error) {
	items, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	return items, nil
}

// Get returns one timetable with its slots ordered by day then start time.
func (s *TimetableService) Get(ctx context.Context, id int64) (*models.TimetableDetail, error) {
	tt, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	slots, err := s.schedules.ListByTimetable(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable schedules")
	}
	tt.Schedules = slots
	return tt, nil
}

func (s *TimetableService) checkAcademicYear(ctx context.Context, id int64) error {
	ok, err := s.academicYears.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic year")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("academic year %d does not exist", id))
	}
	return nil
}

// Create adds a timetable bound to an existing academic year.
func (s *TimetableService) Create(ctx context.Context, req models.TimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if err := s.checkAcademicYear(ctx, req.AcademicYearID); err != nil {
		return nil, err
	}

	tt := &models.Timetable{AcademicYearID: req.AcademicYearID}
	if err := s.repo.Insert(ctx, tt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
	}
	return tt, nil
}

// Update repoints the timetable at a different academic year.
func (s *TimetableService) Update(ctx context.Context, id int64, req models.TimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	tt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	if req.AcademicYearID != tt.AcademicYearID {
		if err := s.checkAcademicYear(ctx, req.AcademicYearID); err != nil {
			return nil, err
		}
		tt.AcademicYearID = req.AcademicYearID
	}

	if err := s.repo.Update(ctx, id, tt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable")
	}
	return tt, nil
}

// Delete removes the timetable permanently.
func (s *TimetableService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	return nil
}

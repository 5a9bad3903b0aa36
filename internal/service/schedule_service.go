package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

// timePattern matches zero-padded 24h clock values, e.g. "08:00", "14:30".
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type scheduleRepository interface {
	ListDetails(ctx context.Context) ([]models.ScheduleDetail, error)
	FindDetail(ctx context.Context, id int64) (*models.ScheduleDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	Insert(ctx context.Context, entity *models.Schedule) error
	Update(ctx context.Context, id int64, entity *models.Schedule) error
	Delete(ctx context.Context, id int64) error
}

type existsChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ScheduleService manages teaching slots. Every slot must reference an
// existing course unit and classroom, carry a known weekday and well-formed
// "HH:MM" times, and start before it ends.
type ScheduleService struct {
	repo        scheduleRepository
	courseUnits existsChecker
	classrooms  existsChecker
	timetables  existsChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewScheduleService(repo scheduleRepository, courseUnits, classrooms, timetables existsChecker, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{
		repo:        repo,
		courseUnits: courseUnits,
		classrooms:  classrooms,
		timetables:  timetables,
		validator:   validate,
		logger:      logger,
	}
}

// List returns every slot with course unit and classroom names resolved.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleDetail, error) {
	items, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return items, nil
}

// Get returns one slot with reference names resolved.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	slot, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return slot, nil
}

func (s *ScheduleService) checkRef(ctx context.Context, checker existsChecker, id int64, what string) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check "+what)
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %d does not exist", what, id))
	}
	return nil
}

func validateSlotTimes(day models.Weekday, start, end string) error {
	if !models.ValidWeekday(day) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", day))
	}
	if !timePattern.MatchString(start) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("start time %q is not HH:MM", start))
	}
	if !timePattern.MatchString(end) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("end time %q is not HH:MM", end))
	}
	// zero-padded HH:MM strings order lexicographically
	if start >= end {
		return appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	return nil
}

// Create adds a teaching slot.
func (s *ScheduleService) Create(ctx context.Context, req models.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := validateSlotTimes(req.Day, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.checkRef(ctx, s.courseUnits, req.CourseUnitID, "course unit"); err != nil {
		return nil, err
	}
	if err := s.checkRef(ctx, s.classrooms, req.ClassroomID, "classroom"); err != nil {
		return nil, err
	}
	if req.TimetableID != nil {
		if err := s.checkRef(ctx, s.timetables, *req.TimetableID, "timetable"); err != nil {
			return nil, err
		}
	}

	slot := &models.Schedule{
		Day:          req.Day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CourseUnitID: req.CourseUnitID,
		ClassroomID:  req.ClassroomID,
		TimetableID:  req.TimetableID,
	}
	if err := s.repo.Insert(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return slot, nil
}

// Update patches the slot; non-nil fields change, and the merged result is
// re-validated as a whole so a start-only change cannot cross the end time.
func (s *ScheduleService) Update(ctx context.Context, id int64, req models.ScheduleUpdate) (*models.Schedule, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if req.Day != nil {
		slot.Day = *req.Day
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if err := validateSlotTimes(slot.Day, slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	if req.CourseUnitID != nil && *req.CourseUnitID != slot.CourseUnitID {
		if err := s.checkRef(ctx, s.courseUnits, *req.CourseUnitID, "course unit"); err != nil {
			return nil, err
		}
		slot.CourseUnitID = *req.CourseUnitID
	}
	if req.ClassroomID != nil && *req.ClassroomID != slot.ClassroomID {
		if err := s.checkRef(ctx, s.classrooms, *req.ClassroomID, "classroom"); err != nil {
			return nil, err
		}
		slot.ClassroomID = *req.ClassroomID
	}
	if req.TimetableID != nil {
		if err := s.checkRef(ctx, s.timetables, *req.TimetableID, "timetable"); err != nil {
			return nil, err
		}
		slot.TimetableID = req.TimetableID
	}

	if err := s.repo.Update(ctx, id, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	return slot, nil
}

// Delete removes the slot permanently.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

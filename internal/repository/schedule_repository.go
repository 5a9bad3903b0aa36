package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// ScheduleRepository manages persistence for teaching slots.
type ScheduleRepository struct {
	*Store[models.Schedule, *models.Schedule]
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{
		Store: NewStore[models.Schedule](db, Mapping{
			Table:   "schedules",
			Columns: []string{"day", "start_time", "end_time", "course_unit_id", "classroom_id", "timetable_id", "created_at", "updated_at"},
		}),
	}
}

const scheduleDetailSelect = `SELECT s.id, s.day, s.start_time, s.end_time, s.course_unit_id, s.classroom_id, s.timetable_id, s.created_at, s.updated_at,
        cu.name AS course_unit_name, cr.name AS classroom_name
        FROM schedules s
        LEFT JOIN course_units cu ON cu.id = s.course_unit_id
        LEFT JOIN classrooms cr ON cr.id = s.classroom_id`

// ListDetails returns schedules with unit and classroom names flattened in.
func (r *ScheduleRepository) ListDetails(ctx context.Context) ([]models.ScheduleDetail, error) {
	details := []models.ScheduleDetail{}
	if err := r.DB().SelectContext(ctx, &details, scheduleDetailSelect+" ORDER BY s.id"); err != nil {
		return nil, fmt.Errorf("list schedule details: %w", err)
	}
	return details, nil
}

// FindDetail loads one schedule with unit and classroom names.
func (r *ScheduleRepository) FindDetail(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	var detail models.ScheduleDetail
	if err := r.DB().GetContext(ctx, &detail, scheduleDetailSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByTimetable returns the slots aggregated under a timetable.
func (r *ScheduleRepository) ListByTimetable(ctx context.Context, timetableID int64) ([]models.ScheduleDetail, error) {
	details := []models.ScheduleDetail{}
	if err := r.DB().SelectContext(ctx, &details, scheduleDetailSelect+" WHERE s.timetable_id = $1 ORDER BY s.day, s.start_time", timetableID); err != nil {
		return nil, fmt.Errorf("list timetable schedules: %w", err)
	}
	return details, nil
}

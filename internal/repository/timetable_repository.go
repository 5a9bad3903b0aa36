package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// TimetableRepository manages persistence for timetables.
type TimetableRepository struct {
	*Store[models.Timetable, *models.Timetable]
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{
		Store: NewStore[models.Timetable](db, Mapping{
			Table:   "timetables",
			Columns: []string{"academic_year_id", "created_at", "updated_at"},
		}),
	}
}

// FindDetail loads a timetable with its academic year label. Schedules are
// attached by the service from the schedule repository.
func (r *TimetableRepository) FindDetail(ctx context.Context, id int64) (*models.TimetableDetail, error) {
	const query = `SELECT t.id, t.academic_year_id, t.created_at, t.updated_at,
        y.period AS academic_period
        FROM timetables t LEFT JOIN academic_years y ON y.id = t.academic_year_id WHERE t.id = $1`
	var detail models.TimetableDetail
	if err := r.DB().GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListDetails returns all timetables with academic year labels.
func (r *TimetableRepository) ListDetails(ctx context.Context) ([]models.TimetableDetail, error) {
	const query = `SELECT t.id, t.academic_year_id, t.created_at, t.updated_at,
        y.period AS academic_period
        FROM timetables t LEFT JOIN academic_years y ON y.id = t.academic_year_id ORDER BY t.id`
	details := []models.TimetableDetail{}
	if err := r.DB().SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list timetable details: %w", err)
	}
	return details, nil
}

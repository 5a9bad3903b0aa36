package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// CourseUnitRepository manages persistence for course units.
type CourseUnitRepository struct {
	*Store[models.CourseUnit, *models.CourseUnit]
}

// NewCourseUnitRepository constructs a CourseUnitRepository.
func NewCourseUnitRepository(db *sqlx.DB) *CourseUnitRepository {
	return &CourseUnitRepository{
		Store: NewStore[models.CourseUnit](db, Mapping{
			Table:   "course_units",
			Columns: []string{"name", "code", "credits", "created_at", "updated_at"},
		}),
	}
}

// ExistsByCode checks if a unit with the code exists, optionally excluding an id.
func (r *CourseUnitRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM course_units WHERE code = $1"
	args := []interface{}{code}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var one int
	if err := r.DB().GetContext(ctx, &one, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course unit code: %w", err)
	}
	return true, nil
}

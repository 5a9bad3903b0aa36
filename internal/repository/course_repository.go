package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// CourseRepository manages persistence for department-owned courses.
type CourseRepository struct {
	*Store[models.Course, *models.Course]
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{
		Store: NewStore[models.Course](db, Mapping{
			Table:   "courses",
			Columns: []string{"name", "code", "credits", "department_id", "created_at", "updated_at"},
		}),
	}
}

// ExistsByCode checks if a course with the code exists, optionally excluding an id.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM courses WHERE code = $1"
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
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// ListDetails returns courses with the owning department flattened in.
func (r *CourseRepository) ListDetails(ctx context.Context) ([]models.CourseDetail, error) {
	const query = `SELECT c.id, c.name, c.code, c.credits, c.department_id, c.created_at, c.updated_at,
        d.name AS department_name
        FROM courses c LEFT JOIN departments d ON d.id = c.department_id ORDER BY c.id`
	details := []models.CourseDetail{}
	if err := r.DB().SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list course details: %w", err)
	}
	return details, nil
}

// FindDetail loads one course with its department name.
func (r *CourseRepository) FindDetail(ctx context.Context, id int64) (*models.CourseDetail, error) {
	const query = `SELECT c.id, c.name, c.code, c.credits, c.department_id, c.created_at, c.updated_at,
        d.name AS department_name
        FROM courses c LEFT JOIN departments d ON d.id = c.department_id WHERE c.id = $1`
	var detail models.CourseDetail
	if err := r.DB().GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

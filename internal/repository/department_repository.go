package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// DepartmentRepository manages persistence for departments.
type DepartmentRepository struct {
	*Store[models.Department, *models.Department]
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{
		Store: NewStore[models.Department](db, Mapping{
			Table:   "departments",
			Columns: []string{"name", "code", "description", "created_at", "updated_at"},
		}),
	}
}

// ExistsByCode checks if a department with the code exists, optionally
// excluding an id (for updates).
func (r *DepartmentRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM departments WHERE code = $1"
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
		return false, fmt.Errorf("check department code: %w", err)
	}
	return true, nil
}

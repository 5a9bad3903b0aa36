package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// ProgrammeRepository manages persistence for programmes.
type ProgrammeRepository struct {
	*Store[models.Programme, *models.Programme]
}

// NewProgrammeRepository constructs a ProgrammeRepository.
func NewProgrammeRepository(db *sqlx.DB) *ProgrammeRepository {
	return &ProgrammeRepository{
		Store: NewStore[models.Programme](db, Mapping{
			Table:   "programmes",
			Columns: []string{"name", "code", "level", "duration", "department_id", "description", "active", "created_at", "updated_at"},
		}),
	}
}

// ExistsByCodeOrName checks for a programme with the same code or name,
// optionally excluding an id.
func (r *ProgrammeRepository) ExistsByCodeOrName(ctx context.Context, code, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM programmes WHERE (code = $1 OR name = $2)"
	args := []interface{}{code, name}
	if excludeID != 0 {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var one int
	if err := r.DB().GetContext(ctx, &one, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check programme uniqueness: %w", err)
	}
	return true, nil
}

// ListDetails returns programmes with the owning department flattened in.
func (r *ProgrammeRepository) ListDetails(ctx context.Context) ([]models.ProgrammeDetail, error) {
	const query = `SELECT p.id, p.name, p.code, p.level, p.duration, p.department_id, p.description, p.active, p.created_at, p.updated_at,
        d.name AS department_name
        FROM programmes p LEFT JOIN departments d ON d.id = p.department_id ORDER BY p.id`
	details := []models.ProgrammeDetail{}
	if err := r.DB().SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list programme details: %w", err)
	}
	return details, nil
}

// FindDetail loads one programme with its department name.
func (r *ProgrammeRepository) FindDetail(ctx context.Context, id int64) (*models.ProgrammeDetail, error) {
	const query = `SELECT p.id, p.name, p.code, p.level, p.duration, p.department_id, p.description, p.active, p.created_at, p.updated_at,
        d.name AS department_name
        FROM programmes p LEFT JOIN departments d ON d.id = p.department_id WHERE p.id = $1`
	var detail models.ProgrammeDetail
	if err := r.DB().GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

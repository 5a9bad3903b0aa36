package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// AcademicYearRepository persists academic years.
type AcademicYearRepository struct {
	*Store[models.AcademicYear, *models.AcademicYear]
}

// NewAcademicYearRepository constructs an AcademicYearRepository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{
		Store: NewStore[models.AcademicYear](db, Mapping{
			Table:   "academic_years",
			Columns: []string{"period", "start_date", "end_date", "year", "created_at", "updated_at"},
		}),
	}
}

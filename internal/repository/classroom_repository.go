package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// ClassroomRepository persists classrooms. Classrooms have no natural key so
// the generic store covers everything.
type ClassroomRepository struct {
	*Store[models.Classroom, *models.Classroom]
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{
		Store: NewStore[models.Classroom](db, Mapping{
			Table:   "classrooms",
			Columns: []string{"name", "short_name", "created_at", "updated_at"},
		}),
	}
}

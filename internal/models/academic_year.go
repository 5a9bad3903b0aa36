package models

import "time"

// AcademicYear models one academic cycle, e.g. "2024/2025".
type AcademicYear struct {
	Record
	Period    string    `db:"period" json:"period"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Year      int       `db:"year" json:"year"`
}

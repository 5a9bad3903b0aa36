package models

// Classroom is a physical teaching room referenced by schedules.
type Classroom struct {
	Record
	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"short_name"`
}

package models

// Department groups students, courses and programmes under one academic unit.
type Department struct {
	Record
	Name        string `db:"name" json:"name"`
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description"`
}

// DepartmentRequest creates a department.
type DepartmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
}

// DepartmentUpdate patches a department; nil fields keep their value.
type DepartmentUpdate struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
}

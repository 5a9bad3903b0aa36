package models

import "time"

// Student is a learner registered in the college. Each student owns exactly
// one user account, created alongside the student record. Deletion is a soft
// delete: Active flips to false, the row stays for audit.
type Student struct {
	Record
	NationalID    string    `db:"national_id" json:"national_id"`
	AdmissionNo   string    `db:"admission_no" json:"admission_no"`
	UserID        string    `db:"user_id" json:"user_id"`
	DepartmentID  *int64    `db:"department_id" json:"department_id,omitempty"`
	ProgrammeID   *int64    `db:"programme_id" json:"programme_id,omitempty"`
	AdmissionDate time.Time `db:"admission_date" json:"admission_date"`
	Active        bool      `db:"active" json:"active"`
}

// StudentDetail joins identity and ownership context for read DTOs.
type StudentDetail struct {
	Student
	FirstName      string  `db:"first_name" json:"first_name"`
	LastName       string  `db:"last_name" json:"last_name"`
	Email          string  `db:"email" json:"email"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	ProgrammeName  *string `db:"programme_name" json:"programme_name,omitempty"`
}

// StudentCreateRequest admits a student and provisions the linked user
// account in one step. The initial password is the national id; the student
// is expected to change it after first login.
type StudentCreateRequest struct {
	FirstName     string    `json:"first_name" validate:"required"`
	LastName      string    `json:"last_name" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	NationalID    string    `json:"national_id" validate:"required"`
	AdmissionNo   string    `json:"admission_no" validate:"required"`
	DepartmentID  *int64    `json:"department_id,omitempty"`
	ProgrammeID   *int64    `json:"programme_id,omitempty"`
	AdmissionDate time.Time `json:"admission_date"`
}

// StudentUpdate patches a student record; nil fields keep their value.
type StudentUpdate struct {
	NationalID    *string    `json:"national_id,omitempty"`
	AdmissionNo   *string    `json:"admission_no,omitempty"`
	DepartmentID  *int64     `json:"department_id,omitempty"`
	ProgrammeID   *int64     `json:"programme_id,omitempty"`
	AdmissionDate *time.Time `json:"admission_date,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

// StudentFilter captures list filtering criteria.
type StudentFilter struct {
	ActiveOnly   bool
	DepartmentID *int64
	Search       string
	Page         int
	PageSize     int
}

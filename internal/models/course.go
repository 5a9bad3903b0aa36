package models

// Course is a department-owned course of study.
type Course struct {
	Record
	Name         string `db:"name" json:"name"`
	Code         string `db:"code" json:"code"`
	Credits      int    `db:"credits" json:"credits"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
}

// CourseDetail flattens the owning department onto the course for read DTOs.
type CourseDetail struct {
	Course
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

// CourseRequest creates a course under a department.
type CourseRequest struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required"`
	Credits      int    `json:"credits" validate:"gte=0"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// CourseUpdate patches a course; nil fields keep their value.
type CourseUpdate struct {
	Name         *string `json:"name,omitempty"`
	Code         *string `json:"code,omitempty"`
	Credits      *int    `json:"credits,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
}

// CourseUnit is a teachable unit referenced by schedules.
type CourseUnit struct {
	Record
	Name    string `db:"name" json:"name"`
	Code    string `db:"code" json:"code"`
	Credits int    `db:"credits" json:"credits"`
}

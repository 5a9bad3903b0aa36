package models

// ProgrammeLevel enumerates award levels a programme can lead to.
type ProgrammeLevel string

const (
	LevelCertificate ProgrammeLevel = "CERTIFICATE"
	LevelDiploma     ProgrammeLevel = "DIPLOMA"
	LevelDegree      ProgrammeLevel = "DEGREE"
	LevelMasters     ProgrammeLevel = "MASTERS"
	LevelDoctorate   ProgrammeLevel = "DOCTORATE"
)

// ValidProgrammeLevel reports whether the value is a known level.
func ValidProgrammeLevel(l ProgrammeLevel) bool {
	switch l {
	case LevelCertificate, LevelDiploma, LevelDegree, LevelMasters, LevelDoctorate:
		return true
	}
	return false
}

// Programme is an award-bearing course of study offered by a department.
type Programme struct {
	Record
	Name         string         `db:"name" json:"name"`
	Code         string         `db:"code" json:"code"`
	Level        ProgrammeLevel `db:"level" json:"level"`
	Duration     int            `db:"duration" json:"duration"`
	DepartmentID int64          `db:"department_id" json:"department_id"`
	Description  string         `db:"description" json:"description"`
	Active       bool           `db:"active" json:"active"`
}

// ProgrammeRequest creates a programme.
type ProgrammeRequest struct {
	Name         string         `json:"name" validate:"required"`
	Code         string         `json:"code" validate:"required"`
	Level        ProgrammeLevel `json:"level" validate:"required"`
	Duration     int            `json:"duration" validate:"gt=0"`
	DepartmentID int64          `json:"department_id" validate:"required,gt=0"`
	Description  string         `json:"description"`
}

// ProgrammeUpdate patches a programme; nil fields keep their value.
type ProgrammeUpdate struct {
	Name         *string         `json:"name,omitempty"`
	Code         *string         `json:"code,omitempty"`
	Level        *ProgrammeLevel `json:"level,omitempty"`
	Duration     *int            `json:"duration,omitempty"`
	DepartmentID *int64          `json:"department_id,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Active       *bool           `json:"active,omitempty"`
}

// ProgrammeDetail flattens the owning department for list and read DTOs.
type ProgrammeDetail struct {
	Programme
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

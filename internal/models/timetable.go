package models

// Timetable ties a set of schedules to an academic year. It aggregates
// schedules read-only; schedule lifecycle stays with the schedule service.
type Timetable struct {
	Record
	AcademicYearID int64 `db:"academic_year_id" json:"academic_year_id"`
}

// TimetableRequest creates or repoints a timetable.
type TimetableRequest struct {
	AcademicYearID int64 `json:"academic_year_id" validate:"required,gt=0"`
}

// TimetableDetail carries the academic year label plus the aggregated slots.
type TimetableDetail struct {
	Timetable
	AcademicPeriod *string          `db:"academic_period" json:"academic_period,omitempty"`
	Schedules      []ScheduleDetail `json:"schedules,omitempty"`
}

package models

// Weekday enumerates the day a schedule slot occupies.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// ValidWeekday reports whether the value is a known weekday.
func ValidWeekday(d Weekday) bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Schedule is a single teaching slot. Times are zero-padded 24h "HH:MM"
// strings validated at write time, so lexicographic order equals time order.
type Schedule struct {
	Record
	Day         Weekday `db:"day" json:"day"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     string  `db:"end_time" json:"end_time"`
	CourseUnitID int64  `db:"course_unit_id" json:"course_unit_id"`
	ClassroomID int64   `db:"classroom_id" json:"classroom_id"`
	TimetableID *int64  `db:"timetable_id" json:"timetable_id,omitempty"`
}

// ScheduleRequest creates a teaching slot.
type ScheduleRequest struct {
	Day          Weekday `json:"day" validate:"required"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	CourseUnitID int64   `json:"course_unit_id" validate:"required,gt=0"`
	ClassroomID  int64   `json:"classroom_id" validate:"required,gt=0"`
	TimetableID  *int64  `json:"timetable_id,omitempty"`
}

// ScheduleUpdate patches a slot; nil fields keep their value.
type ScheduleUpdate struct {
	Day          *Weekday `json:"day,omitempty"`
	StartTime    *string  `json:"start_time,omitempty"`
	EndTime      *string  `json:"end_time,omitempty"`
	CourseUnitID *int64   `json:"course_unit_id,omitempty"`
	ClassroomID  *int64   `json:"classroom_id,omitempty"`
	TimetableID  *int64   `json:"timetable_id,omitempty"`
}

// ScheduleDetail flattens the referenced course unit and classroom.
type ScheduleDetail struct {
	Schedule
	CourseUnitName *string `db:"course_unit_name" json:"course_unit_name,omitempty"`
	ClassroomName  *string `db:"classroom_name" json:"classroom_name,omitempty"`
}

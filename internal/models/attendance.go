package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// Attendance records a student's presence in a classroom on a date.
type Attendance struct {
	ID          string           `db:"id" json:"id"`
	ClassroomID string           `db:"classroom_id" json:"classroom_id"`
	UserID      string           `db:"user_id" json:"user_id"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceSummary aggregates counts for a single student.
type AttendanceSummary struct {
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// AttendanceReportRow summarises one student within a classroom report.
type AttendanceReportRow struct {
	UserID      string  `db:"user_id" json:"user_id"`
	StudentName string  `db:"student_name" json:"student_name"`
	Present     int     `db:"present" json:"present"`
	Absent      int     `db:"absent" json:"absent"`
	Late        int     `db:"late" json:"late"`
	Excused     int     `db:"excused" json:"excused"`
	Total       int     `db:"total" json:"total"`
	Percent     float64 `db:"percent" json:"percent"`
}

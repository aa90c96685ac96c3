package models

import "github.com/yigit/courseplanner/internal/pkg/semester"

// Term is a row of the terms table marking the current and enrolling semesters.
type Term struct {
	ID           int64         `json:"id" db:"id"`
	Year         int           `json:"year" db:"year"`
	Term         semester.Term `json:"term" db:"term"`
	SemesterCode int           `json:"semesterCode" db:"semester_code"`
	IsCurrent    bool          `json:"isCurrent" db:"is_current"`
	IsEnrolling  bool          `json:"isEnrolling" db:"is_enrolling"`
}

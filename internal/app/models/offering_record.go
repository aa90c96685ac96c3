package models

import "github.com/yigit/courseplanner/internal/pkg/semester"

// OfferingRecord is a normalized live section parsed from one feed row.
type OfferingRecord struct {
	Section      string        `json:"section"`
	InfoURL      string        `json:"infoUrl"`
	Title        string        `json:"-"`
	Term         semester.Term `json:"term"`
	Year         int           `json:"year"`
	SemesterCode int           `json:"semesterCode"`
	Enrolling    bool          `json:"isEnrolling"`
	Location     string        `json:"location"`
	Instructors  string        `json:"instructors"`
	Enrolled     int           `json:"enrolled"`
	Capacity     int           `json:"capacity"`
	LoadPercent  int           `json:"loadPercent"`

	// Malformed is set when the enrollment or markup fields could not be parsed
	// and were zeroed.
	Malformed bool `json:"-"`
}

// BrowseResult is everything the feed returned for one (dept, number, semester).
type BrowseResult struct {
	Dept         string           `json:"dept"`
	CourseNumber string           `json:"courseNumber"`
	Title        string           `json:"title"`
	Year         int              `json:"year"`
	Term         semester.Term    `json:"semester"`
	SemesterCode int              `json:"semesterCode"`
	Offerings    []OfferingRecord `json:"offerings"`
}

// Totals sums enrolled and capacity across all records.
func (r *BrowseResult) Totals() (enrolled, capacity int) {
	for _, o := range r.Offerings {
		enrolled += o.Enrolled
		capacity += o.Capacity
	}
	return enrolled, capacity
}

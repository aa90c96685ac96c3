package models

// CourseDataRow is one row of the bulk course_data table. Rows arrive ordered
// by semester, subject and catalog number.
type CourseDataRow struct {
	SemesterCode       int    `json:"semesterCode" db:"semester"`
	Subject            string `json:"subject" db:"subject"`
	CatalogNumber      string `json:"catalogNumber" db:"catalog_number"`
	Location           string `json:"location" db:"location"`
	EnrollmentCapacity int    `json:"enrollmentCapacity" db:"enrollment_capacity"`
	EnrollmentTotal    int    `json:"enrollmentTotal" db:"enrollment_total"`
	Instructors        string `json:"instructors" db:"instructors"`
	ComponentCode      string `json:"componentCode" db:"component_code"`
	// IdempotencyKey is set on rows written by a keyed add-offering; empty otherwise.
	IdempotencyKey string `json:"idempotencyKey,omitempty" db:"idempotency_key"`
}

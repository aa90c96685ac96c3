package models

import (
	"strings"
	"time"
)

// CatalogEvent describes an incremental change to the catalog, pushed to watchers.
type CatalogEvent struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	CatalogNumber   string    `json:"catalogNumber"`
	SemesterCode    int       `json:"semesterCode"`
	Year            int       `json:"year"`
	Term            string    `json:"term"`
	Location        string    `json:"location"`
	Component       string    `json:"component"`
	EnrollmentTotal int       `json:"enrollmentTotal"`
	EnrollmentCap   int       `json:"enrollmentCap"`
	Description     string    `json:"description"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// CourseKey identifies a course regardless of subject case ("CMPT 276").
func CourseKey(subject, catalogNumber string) string {
	return strings.ToUpper(strings.TrimSpace(subject)) + " " + strings.TrimSpace(catalogNumber)
}

// CourseKey returns the key of the course the event belongs to.
func (e CatalogEvent) CourseKey() string {
	return CourseKey(e.Subject, e.CatalogNumber)
}

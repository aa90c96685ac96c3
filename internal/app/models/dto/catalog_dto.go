package dto

import (
	"github.com/yigit/courseplanner/internal/app/catalog"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// DepartmentResponse is a department as listed by the API
type DepartmentResponse struct {
	ID      int64  `json:"deptId" example:"1"`
	Subject string `json:"name" example:"CMPT"`
}

// CourseResponse is a course as listed by the API
type CourseResponse struct {
	ID            int64  `json:"courseId" example:"7"`
	CatalogNumber string `json:"catalogNumber" example:"276"`
}

// OfferingResponse is a grouped offering as listed by the API
type OfferingResponse struct {
	ID           int64  `json:"courseOfferingId" example:"12"`
	Location     string `json:"location" example:"Burnaby"`
	Instructors  string `json:"instructors" example:"Alice, Bob"`
	Term         string `json:"term" example:"Fall"`
	SemesterCode int    `json:"semesterCode" example:"1257"`
	Year         int    `json:"year" example:"2025"`
}

// SectionResponse is one component of an offering
type SectionResponse struct {
	Type            string `json:"type" example:"LEC"`
	EnrollmentCap   int    `json:"enrollmentCap" example:"100"`
	EnrollmentTotal int    `json:"enrollmentTotal" example:"80"`
}

// AddOfferingRequest is an incremental section observation
type AddOfferingRequest struct {
	Subject         string `json:"subjectName" validate:"required,subject" example:"CMPT"`
	CatalogNumber   string `json:"catalogNumber" validate:"required,catalog_number" example:"276"`
	SemesterCode    int    `json:"semester" validate:"semester_code" example:"1257"`
	Location        string `json:"location" validate:"required,max=64" example:"Burnaby"`
	Component       string `json:"component" validate:"required,component" example:"LEC"`
	EnrollmentTotal int    `json:"enrollmentTotal" validate:"gte=0" example:"80"`
	EnrollmentCap   int    `json:"enrollmentCap" validate:"gte=0" example:"100"`
	Instructor      string `json:"instructor" validate:"max=512" example:"Alice"`
	// Key makes the request replace an earlier one with the same key
	Key string `json:"key,omitempty" validate:"max=128"`
}

// EnrollmentPoint is one semester of enrollment history
type EnrollmentPoint struct {
	SemesterCode int     `json:"semesterCode" example:"1257"`
	Term         string  `json:"term" example:"Fall"`
	Year         int     `json:"year" example:"2025"`
	Enrolled     int     `json:"enrolled" example:"180"`
	Capacity     int     `json:"capacity" example:"200"`
	LoadPercent  float64 `json:"loadPercent" example:"90"`
}

// NewDepartmentResponse converts a catalog department
func NewDepartmentResponse(d catalog.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Subject: d.Subject}
}

// NewCourseResponse converts a catalog course
func NewCourseResponse(c catalog.Course) CourseResponse {
	return CourseResponse{ID: c.ID, CatalogNumber: c.CatalogNumber}
}

// NewOfferingResponse converts a grouped offering
func NewOfferingResponse(o catalog.Offering) OfferingResponse {
	return OfferingResponse{
		ID:           o.ID,
		Location:     o.Location,
		Instructors:  o.InstructorList(),
		Term:         o.Semester.Term.Capitalized(),
		SemesterCode: o.SemesterCode,
		Year:         o.Semester.Year,
	}
}

// NewSectionResponses converts an offering's sections
func NewSectionResponses(o catalog.Offering) []SectionResponse {
	out := make([]SectionResponse, 0, len(o.Sections))
	for _, s := range o.Sections {
		out = append(out, SectionResponse{
			Type:            s.ComponentCode,
			EnrollmentCap:   s.EnrollmentCapacity,
			EnrollmentTotal: s.EnrollmentTotal,
		})
	}
	return out
}

// NewEnrollmentPoint builds a history point; load is 0 without capacity
func NewEnrollmentPoint(sem semester.Semester, enrolled, capacity int) EnrollmentPoint {
	p := EnrollmentPoint{
		SemesterCode: sem.Code,
		Term:         sem.Term.Capitalized(),
		Year:         sem.Year,
		Enrolled:     enrolled,
		Capacity:     capacity,
	}
	if capacity > 0 {
		p.LoadPercent = float64(enrolled) * 100 / float64(capacity)
	}
	return p
}

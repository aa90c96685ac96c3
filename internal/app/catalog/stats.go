package catalog

import (
	"math"
	"sort"
	"strings"
)

const lectureComponent = "LEC"

// LoadPoint is the lecture load of a course in one semester.
type LoadPoint struct {
	SemesterCode int     `json:"semesterCode"`
	Enrolled     int     `json:"enrolled"`
	Capacity     int     `json:"capacity"`
	Load         float64 `json:"load"`
	Locations    string  `json:"locations"`
	Instructors  string  `json:"instructors"`
}

// SemesterCount is a per-semester student total.
type SemesterCount struct {
	SemesterCode int `json:"semesterCode"`
	Students     int `json:"students"`
}

// CourseLoad aggregates lecture sections per semester. Offerings without
// lecture capacity are skipped. Load is a percentage rounded to one decimal.
func CourseLoad(offerings []Offering) []LoadPoint {
	type acc struct {
		enrolled, capacity int
		locations          []string
		instructors        [][]string
	}
	bySemester := make(map[int]*acc)

	for _, o := range offerings {
		lec, ok := o.Section(lectureComponent)
		if !ok || lec.EnrollmentCapacity <= 0 {
			continue
		}
		a, ok := bySemester[o.SemesterCode]
		if !ok {
			a = &acc{}
			bySemester[o.SemesterCode] = a
		}
		a.enrolled += lec.EnrollmentTotal
		a.capacity += lec.EnrollmentCapacity
		a.locations = append(a.locations, o.Location)
		a.instructors = append(a.instructors, o.Instructors)
	}

	out := make([]LoadPoint, 0, len(bySemester))
	for code, a := range bySemester {
		out = append(out, LoadPoint{
			SemesterCode: code,
			Enrolled:     a.enrolled,
			Capacity:     a.capacity,
			Load:         math.Round(float64(a.enrolled)*1000/float64(a.capacity)) / 10,
			Locations:    strings.Join(distinct(a.locations), ", "),
			Instructors:  strings.Join(MergeInstructors(a.instructors...), ", "),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SemesterCode < out[j].SemesterCode })
	return out
}

// distinct drops repeated values, keeping first-seen order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// StudentsPerSemester sums lecture enrollment per semester across courses.
// Every semester a course is offered in appears, with zero if it had no lecture.
func StudentsPerSemester(courses []CourseView) []SemesterCount {
	totals := make(map[int]int)
	for _, c := range courses {
		for _, o := range c.Offerings {
			lec, _ := o.Section(lectureComponent)
			totals[o.SemesterCode] += lec.EnrollmentTotal
		}
	}

	out := make([]SemesterCount, 0, len(totals))
	for code, n := range totals {
		out = append(out, SemesterCount{SemesterCode: code, Students: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SemesterCode < out[j].SemesterCode })
	return out
}

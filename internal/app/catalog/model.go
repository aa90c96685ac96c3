// Package catalog owns the in-memory department -> course -> offering -> section
// tree and derives grouped, merged views from it on every read.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// Department is identified by its subject code ("CMPT").
type Department struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
}

// Course is identified by (department, catalog number).
type Course struct {
	ID            int64  `json:"id"`
	DepartmentID  int64  `json:"departmentId"`
	CatalogNumber string `json:"catalogNumber"`
}

// Section holds enrollment for one teaching component ("LEC", "TUT").
type Section struct {
	ComponentCode      string `json:"componentCode"`
	EnrollmentTotal    int    `json:"enrollmentTotal"`
	EnrollmentCapacity int    `json:"enrollmentCapacity"`
}

// Offering is one (semester, location) teaching instance. Values returned by
// the store are copies; changing them does not affect the tree.
type Offering struct {
	ID           int64             `json:"id"`
	SemesterCode int               `json:"semesterCode"`
	Semester     semester.Semester `json:"semester"`
	Location     string            `json:"location"`
	Instructors  []string          `json:"instructors"`
	Sections     []Section         `json:"sections"`
}

// GroupKey is the natural key raw offerings are merged on.
func GroupKey(semesterCode int, location string) string {
	return fmt.Sprintf("%d_%s", semesterCode, location)
}

// Key returns the offering's group key.
func (o Offering) Key() string {
	return GroupKey(o.SemesterCode, o.Location)
}

// InstructorList renders the instructor set for display.
func (o Offering) InstructorList() string {
	return strings.Join(o.Instructors, ", ")
}

// Section returns the section for a component code.
func (o Offering) Section(component string) (Section, bool) {
	component = NormalizeComponent(component)
	for _, s := range o.Sections {
		if s.ComponentCode == component {
			return s, true
		}
	}
	return Section{}, false
}

// GroupedCourse is a course with its grouped offerings keyed by GroupKey.
type GroupedCourse struct {
	Course
	Offerings map[string]Offering `json:"offerings"`
}

// SortedOfferings orders offerings by semester code, then location.
func (c GroupedCourse) SortedOfferings() []Offering {
	out := make([]Offering, 0, len(c.Offerings))
	for _, o := range c.Offerings {
		out = append(out, o)
	}
	sortOfferings(out)
	return out
}

// CourseView is a course with its grouped offerings in display order.
type CourseView struct {
	Course
	Offerings []Offering `json:"offerings"`
}

// DepartmentView is a department with its grouped courses in display order.
type DepartmentView struct {
	Department
	Courses []CourseView `json:"courses"`
}

// placeholderInstructor marks "no instructor" in upstream data.
const placeholderInstructor = "."

// SplitInstructors splits a comma-separated instructor string, trimming names
// and dropping blanks, placeholders and duplicates. First-seen order is kept.
func SplitInstructors(raw string) []string {
	return MergeInstructors(strings.Split(raw, ","))
}

// MergeInstructors concatenates instructor lists with the same cleanup rules
// as SplitInstructors.
func MergeInstructors(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, name := range list {
			name = strings.TrimSpace(name)
			if name == "" || name == placeholderInstructor {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// MergeInstructorStrings merges comma-separated instructor strings into one.
func MergeInstructorStrings(raw ...string) string {
	lists := make([][]string, 0, len(raw))
	for _, r := range raw {
		lists = append(lists, strings.Split(r, ","))
	}
	return strings.Join(MergeInstructors(lists...), ", ")
}

// NormalizeComponent trims and upper-cases a component code ("lec " -> "LEC").
func NormalizeComponent(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func sortSections(s []Section) {
	sort.Slice(s, func(i, j int) bool { return lessFold(s[i].ComponentCode, s[j].ComponentCode) })
}

func sortOfferings(o []Offering) {
	sort.Slice(o, func(i, j int) bool {
		if o[i].SemesterCode != o[j].SemesterCode {
			return o[i].SemesterCode < o[j].SemesterCode
		}
		if o[i].Location != o[j].Location {
			return o[i].Location < o[j].Location
		}
		return o[i].ID < o[j].ID
	})
}

package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// GradeDistribution holds letter-grade counts in fixed buckets.
type GradeDistribution struct {
	APlus  int64 `json:"A+"`
	A      int64 `json:"A"`
	AMinus int64 `json:"A-"`
	BPlus  int64 `json:"B+"`
	B      int64 `json:"B"`
	BMinus int64 `json:"B-"`
	CPlus  int64 `json:"C+"`
	C      int64 `json:"C"`
	CMinus int64 `json:"C-"`
	D      int64 `json:"D"`
	F      int64 `json:"F"`
}

// GradeLetters lists the buckets from best to worst.
var GradeLetters = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "F"}

func (g *GradeDistribution) bucket(letter string) *int64 {
	switch letter {
	case "A+":
		return &g.APlus
	case "A":
		return &g.A
	case "A-":
		return &g.AMinus
	case "B+":
		return &g.BPlus
	case "B":
		return &g.B
	case "B-":
		return &g.BMinus
	case "C+":
		return &g.CPlus
	case "C":
		return &g.C
	case "C-":
		return &g.CMinus
	case "D":
		return &g.D
	case "F":
		return &g.F
	}
	return nil
}

// Count returns the count for a letter grade, 0 for unknown letters.
func (g GradeDistribution) Count(letter string) int64 {
	if p := g.bucket(letter); p != nil {
		return *p
	}
	return 0
}

// Total sums every bucket.
func (g GradeDistribution) Total() int64 {
	var n int64
	for _, l := range GradeLetters {
		n += g.Count(l)
	}
	return n
}

// NewGradeDistribution converts the loosely typed JSON map stored upstream into
// fixed buckets. Keys that are not letter grades ("Median Grade", "Fail Rate")
// are skipped; grade values must be non-negative whole numbers.
func NewGradeDistribution(raw map[string]any) (GradeDistribution, error) {
	var g GradeDistribution
	for key, value := range raw {
		p := g.bucket(strings.TrimSpace(key))
		if p == nil {
			continue
		}

		n, err := toCount(value)
		if err != nil {
			return GradeDistribution{}, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				fmt.Sprintf("grade %q: %v", key, err))
		}
		*p = n
	}
	return g, nil
}

func toCount(v any) (int64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a non-negative count: %v", v)
	}
	return int64(f), nil
}

// CourseGrades is the grade summary for one course.
type CourseGrades struct {
	DeptCode     string            `json:"deptCode"`
	CourseNumber string            `json:"courseNumber"`
	Title        string            `json:"title"`
	MedianGrade  string            `json:"medianGrade"`
	FailRate     float64           `json:"failRate"`
	Distribution GradeDistribution `json:"distribution"`
}

// Package semester converts between (year, term) pairs and compact integer
// semester codes of the form (year-base)*10 + termDigit.
package semester

import (
	"fmt"
	"strings"

	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// Term is one of the three academic terms, always stored lower-case.
type Term string

const (
	Spring Term = "spring"
	Summer Term = "summer"
	Fall   Term = "fall"
)

// DefaultBaseYear is the epoch used by the upstream registrar (2025 fall -> 1257).
const DefaultBaseYear = 1900

// Term digits
const (
	springDigit = 1
	summerDigit = 4
	fallDigit   = 7
)

// Semester is a decoded semester code.
type Semester struct {
	Year int  `json:"year"`
	Term Term `json:"term"`
	Code int  `json:"semesterCode"`
}

// String renders "2025 Fall".
func (s Semester) String() string {
	return fmt.Sprintf("%d %s", s.Year, s.Term.Capitalized())
}

// Capitalized returns the display form of a term ("Fall").
func (t Term) Capitalized() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func (t Term) digit() int {
	switch t {
	case Spring:
		return springDigit
	case Summer:
		return summerDigit
	case Fall:
		return fallDigit
	}
	return 0
}

// ParseTerm trims and lower-cases s and checks it names a known term.
func ParseTerm(s string) (Term, error) {
	t := Term(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Spring, Summer, Fall:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTerm, s)
}

// Codec maps semesters to codes relative to BaseYear.
type Codec struct {
	BaseYear int
}

// NewCodec returns a codec for the given epoch.
func NewCodec(baseYear int) Codec {
	return Codec{BaseYear: baseYear}
}

// Default is the codec used by the package-level helpers.
var Default = NewCodec(DefaultBaseYear)

// Encode returns the semester code for year and term.
func (c Codec) Encode(year int, term string) (int, error) {
	t, err := ParseTerm(term)
	if err != nil {
		return 0, err
	}
	return c.encode(year, t)
}

func (c Codec) encode(year int, t Term) (int, error) {
	if year < c.BaseYear {
		return 0, fmt.Errorf("%w: %d < %d", apperrors.ErrInvalidYear, year, c.BaseYear)
	}
	return (year-c.BaseYear)*10 + t.digit(), nil
}

// Decode splits code arithmetically, so offsets of any digit count decode correctly.
func (c Codec) Decode(code int) (Semester, error) {
	if code < 0 {
		return Semester{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidSemesterCode, code)
	}

	var t Term
	switch code % 10 {
	case springDigit:
		t = Spring
	case summerDigit:
		t = Summer
	case fallDigit:
		t = Fall
	default:
		return Semester{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidSemesterCode, code)
	}

	return Semester{Year: c.BaseYear + code/10, Term: t, Code: code}, nil
}

// Previous steps back one term: spring -> previous fall, fall -> summer, summer -> spring.
func (c Codec) Previous(year int, term string) (Semester, error) {
	t, err := ParseTerm(term)
	if err != nil {
		return Semester{}, err
	}

	switch t {
	case Spring:
		year, t = year-1, Fall
	case Fall:
		t = Summer
	case Summer:
		t = Spring
	}

	code, err := c.encode(year, t)
	if err != nil {
		return Semester{}, err
	}
	return Semester{Year: year, Term: t, Code: code}, nil
}

// Encode uses the default codec.
func Encode(year int, term string) (int, error) {
	return Default.Encode(year, term)
}

// Decode uses the default codec.
func Decode(code int) (Semester, error) {
	return Default.Decode(code)
}

// Previous uses the default codec.
func Previous(year int, term string) (Semester, error) {
	return Default.Previous(year, term)
}

// Capitalize validates term and returns its display form.
func Capitalize(term string) (string, error) {
	t, err := ParseTerm(term)
	if err != nil {
		return "", err
	}
	return t.Capitalized(), nil
}

// Valid reports whether code decodes under the default codec.
func Valid(code int) bool {
	_, err := Decode(code)
	return err == nil
}

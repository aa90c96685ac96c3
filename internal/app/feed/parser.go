// Package feed turns raw registrar browse rows into typed offering records and
// fetches those rows from the upstream browse endpoint.
package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// Row layout: [term label, link markup, title, enrollment, instructor, campus].
const (
	colTerm = iota
	colMarkup
	colTitle
	colEnrollment
	colInstructor
	colCampus
	rowWidth
)

// Compiled enrollment patterns
var (
	// "115" or "115 (+31)"
	enrolledPattern = regexp.MustCompile(`^(\d+)(?:\s*\(\+(\d+)\))?$`)
	// first run of digits, trailing text tolerated
	capacityPattern = regexp.MustCompile(`(\d+)`)
)

const hrefPrefix = `href="`

// ExtractSectionCode returns the last whitespace token of the link text,
// e.g. "D100" from `<a ...>CMPT 276 D100</a>`. Empty when the markup has no
// visible text.
func ExtractSectionCode(markup string) string {
	start := strings.Index(markup, ">")
	if start < 0 {
		return ""
	}
	rest := markup[start+1:]
	end := strings.Index(rest, "</")
	if end < 0 {
		return ""
	}

	tokens := strings.Fields(rest[:end])
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// ExtractDetailURL returns the value of the first href="..." attribute.
func ExtractDetailURL(markup string) string {
	start := strings.Index(markup, hrefPrefix)
	if start < 0 {
		return ""
	}
	rest := markup[start+len(hrefPrefix):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// ParseEnrollment parses "enrolled[ (+waitlist)]/capacity". The enrolled count
// includes the waitlist. Any unparseable side yields (0, 0).
func ParseEnrollment(raw string) (enrolled, capacity int) {
	enrolled, capacity, _ = parseEnrollment(raw)
	return enrolled, capacity
}

func parseEnrollment(raw string) (enrolled, capacity int, ok bool) {
	left, right, found := strings.Cut(raw, "/")
	if !found {
		return 0, 0, false
	}

	m := enrolledPattern.FindStringSubmatch(strings.TrimSpace(left))
	if m == nil {
		return 0, 0, false
	}
	c := capacityPattern.FindString(strings.TrimSpace(right))
	if c == "" {
		return 0, 0, false
	}

	base, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	waitlist := 0
	if m[2] != "" {
		if waitlist, err = strconv.Atoi(m[2]); err != nil {
			return 0, 0, false
		}
	}
	if capacity, err = strconv.Atoi(c); err != nil {
		return 0, 0, false
	}

	return base + waitlist, capacity, true
}

// LoadPercent returns enrolled/capacity as a whole percentage rounded half up.
// Over-enrollment yields values above 100; capacity <= 0 yields 0.
func LoadPercent(enrolled, capacity int) int {
	if capacity <= 0 || enrolled <= 0 {
		return 0
	}
	return (enrolled*200 + capacity) / (2 * capacity)
}

// Parser converts feed rows, decoding semester codes with its codec.
type Parser struct {
	codec semester.Codec
}

// NewParser returns a parser for codes built on codec's base year.
func NewParser(codec semester.Codec) Parser {
	return Parser{codec: codec}
}

var defaultParser = NewParser(semester.Default)

// ParseRow converts one feed row. Only an invalid semester code is an error;
// a malformed row comes back zeroed with Malformed set.
func (p Parser) ParseRow(row []string, semesterCode int) (models.OfferingRecord, error) {
	sem, err := p.codec.Decode(semesterCode)
	if err != nil {
		return models.OfferingRecord{}, err
	}
	return parseRow(row, sem), nil
}

// ParseRows converts a batch of rows for one semester. Malformed rows are kept;
// callers decide whether to drop them.
func (p Parser) ParseRows(rows [][]string, semesterCode int) ([]models.OfferingRecord, error) {
	sem, err := p.codec.Decode(semesterCode)
	if err != nil {
		return nil, err
	}

	records := make([]models.OfferingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, parseRow(row, sem))
	}
	return records, nil
}

// ParseRow is Parser.ParseRow with semester.Default.
func ParseRow(row []string, semesterCode int) (models.OfferingRecord, error) {
	return defaultParser.ParseRow(row, semesterCode)
}

// ParseRows is Parser.ParseRows with semester.Default.
func ParseRows(rows [][]string, semesterCode int) ([]models.OfferingRecord, error) {
	return defaultParser.ParseRows(rows, semesterCode)
}

func parseRow(row []string, sem semester.Semester) models.OfferingRecord {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	markup := field(colMarkup)
	rec := models.OfferingRecord{
		Section:      ExtractSectionCode(markup),
		InfoURL:      ExtractDetailURL(markup),
		Title:        field(colTitle),
		Term:         sem.Term,
		Year:         sem.Year,
		SemesterCode: sem.Code,
		Location:     field(colCampus),
		Instructors:  field(colInstructor),
	}

	enrolled, capacity, ok := parseEnrollment(field(colEnrollment))
	rec.Enrolled = enrolled
	rec.Capacity = capacity
	rec.LoadPercent = LoadPercent(enrolled, capacity)
	rec.Malformed = !ok || len(row) < rowWidth || rec.Section == "" || rec.InfoURL == "" || rec.Title == ""

	return rec
}

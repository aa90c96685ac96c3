// Package importer reads course_data exports into rows.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

type column int

const (
	colSemester column = iota
	colSubject
	colCatalogNumber
	colLocation
	colCapacity
	colTotal
	colInstructors
	colComponent
	numColumns
)

// headerAliases maps normalized header names to columns. Registrar exports
// spell enrolment with one l.
var headerAliases = map[string]column{
	"SEMESTER":           colSemester,
	"SEMESTERCODE":       colSemester,
	"SUBJECT":            colSubject,
	"CATALOGNUMBER":      colCatalogNumber,
	"CATNUM":             colCatalogNumber,
	"LOCATION":           colLocation,
	"ENROLMENTCAPACITY":  colCapacity,
	"ENROLLMENTCAPACITY": colCapacity,
	"ENROLMENTTOTAL":     colTotal,
	"ENROLLMENTTOTAL":    colTotal,
	"INSTRUCTORS":        colInstructors,
	"COMPONENTCODE":      colComponent,
	"COMPONENT":          colComponent,
}

var columnNames = [numColumns]string{
	"SEMESTER", "SUBJECT", "CATALOGNUMBER", "LOCATION",
	"ENROLMENTCAPACITY", "ENROLMENTTOTAL", "INSTRUCTORS", "COMPONENTCODE",
}

func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, h)
}

// ReadCourseData parses a CSV export with a header row. Columns may appear in
// any order; extra columns are ignored. Blank lines are skipped.
func ReadCourseData(r io.Reader) ([]models.CourseDataRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidationError("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}
	for i, h := range header {
		if col, ok := headerAliases[normalizeHeader(h)]; ok && index[col] < 0 {
			index[col] = i
		}
	}
	for col, i := range index {
		if i < 0 {
			return nil, fmt.Errorf("%w: csv is missing column %s", apperrors.ErrValidationFailed, columnNames[col])
		}
	}

	var rows []models.CourseDataRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		row, err := toRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// instructors maps the exporter's "(null)" marker to empty
func instructors(raw string) string {
	if strings.EqualFold(raw, "(null)") {
		return ""
	}
	return raw
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func toRow(record []string, index [numColumns]int) (models.CourseDataRow, error) {
	field := func(col column) string {
		if i := index[col]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	number := func(col column) (int, error) {
		n, err := strconv.Atoi(field(col))
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not a number", apperrors.ErrValidationFailed, columnNames[col], field(col))
		}
		return n, nil
	}

	code, err := number(colSemester)
	if err != nil {
		return models.CourseDataRow{}, err
	}
	capacity, err := number(colCapacity)
	if err != nil {
		return models.CourseDataRow{}, err
	}
	total, err := number(colTotal)
	if err != nil {
		return models.CourseDataRow{}, err
	}

	return models.CourseDataRow{
		SemesterCode:       code,
		Subject:            field(colSubject),
		CatalogNumber:      field(colCatalogNumber),
		Location:           field(colLocation),
		EnrollmentCapacity: capacity,
		EnrollmentTotal:    total,
		Instructors:        instructors(field(colInstructors)),
		ComponentCode:      field(colComponent),
	}, nil
}

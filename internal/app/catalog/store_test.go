package catalog

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

func add(t *testing.T, s *Store, subject, number string, code int, location, component string, total, capacity int, instructors string) Offering {
	t.Helper()
	o, err := s.AddOffering(AddOfferingInput{
		Subject:         subject,
		CatalogNumber:   number,
		SemesterCode:    code,
		Location:        location,
		Component:       component,
		EnrollmentTotal: total,
		EnrollmentCap:   capacity,
		Instructors:     instructors,
	})
	require.NoError(t, err)
	return o
}

func groupedFor(t *testing.T, s *Store, subject, number string) map[string]Offering {
	t.Helper()
	d, err := s.FindDepartment(subject)
	require.NoError(t, err)
	c, err := s.FindCourse(d.ID, number)
	require.NoError(t, err)
	grouped, err := s.GroupOfferings(c.ID)
	require.NoError(t, err)
	return grouped
}

func TestFindOrCreate(t *testing.T) {
	s := NewStore(semester.Default)

	d1, err := s.FindOrCreateDepartment("CMPT")
	require.NoError(t, err)
	d2, err := s.FindOrCreateDepartment("cmpt")
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Equal(t, "CMPT", d2.Subject)

	c1, err := s.FindOrCreateCourse(d1.ID, "276")
	require.NoError(t, err)
	c2, err := s.FindOrCreateCourse(d1.ID, " 276 ")
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	assert.Equal(t, d1.ID, c1.DepartmentID)

	o1, err := s.FindOrCreateOffering(c1.ID, 1257, "Burnaby", "Alice")
	require.NoError(t, err)
	o2, err := s.FindOrCreateOffering(c1.ID, 1257, "Burnaby", "Alice")
	require.NoError(t, err)
	assert.NotEqual(t, o1.ID, o2.ID, "raw offerings are never deduplicated")
	assert.Equal(t, semester.Semester{Year: 2025, Term: semester.Fall, Code: 1257}, o1.Semester)

	_, err = s.FindOrCreateDepartment("  ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = s.FindOrCreateCourse(999, "276")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	_, err = s.FindOrCreateOffering(999, 1257, "Burnaby", "")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	_, err = s.FindOrCreateOffering(c1.ID, 1259, "Burnaby", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterCode)
}

func TestIngestSection(t *testing.T) {
	s := NewStore(semester.Default)
	d, _ := s.FindOrCreateDepartment("CMPT")
	c, _ := s.FindOrCreateCourse(d.ID, "276")
	o, err := s.FindOrCreateOffering(c.ID, 1257, "Burnaby", "Alice")
	require.NoError(t, err)

	require.NoError(t, s.IngestSection(o.ID, "LEC", 50, 60))
	require.NoError(t, s.IngestSection(o.ID, " lec", 10, 0))

	grouped, err := s.GroupOfferings(c.ID)
	require.NoError(t, err)
	sec, ok := grouped[GroupKey(1257, "Burnaby")].Section("LEC")
	require.True(t, ok)
	assert.Equal(t, Section{ComponentCode: "LEC", EnrollmentTotal: 60, EnrollmentCapacity: 60}, sec)

	assert.ErrorIs(t, s.IngestSection(o.ID, "LEC", -1, 10), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, s.IngestSection(o.ID, "", 1, 10), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, s.IngestSection(12345, "LEC", 1, 10), apperrors.ErrOfferingNotFound)
}

func TestGroupOfferings_MergeCorrectness(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 50, 60, "Alice")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 10, 0, "Bob")

	grouped := groupedFor(t, s, "CMPT", "276")
	require.Len(t, grouped, 1)

	off := grouped["1257_Burnaby"]
	assert.Equal(t, []Section{{ComponentCode: "LEC", EnrollmentTotal: 60, EnrollmentCapacity: 60}}, off.Sections)
	assert.Equal(t, "Alice, Bob", off.InstructorList())
}

func TestGroupOfferings_EndToEnd(t *testing.T) {
	s := NewStore(semester.Default)
	first := add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "TUT", 20, 25, "Bob")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "TUT", 15, 25, "Bob")

	grouped := groupedFor(t, s, "CMPT", "276")
	require.Len(t, grouped, 1)

	off := grouped[GroupKey(1257, "Burnaby")]
	assert.Equal(t, first.ID, off.ID)
	assert.Equal(t, "2025 Fall", off.Semester.String())
	assert.Equal(t, []string{"Alice", "Bob"}, off.Instructors)
	assert.Equal(t, []Section{
		{ComponentCode: "LEC", EnrollmentTotal: 80, EnrollmentCapacity: 100},
		{ComponentCode: "TUT", EnrollmentTotal: 35, EnrollmentCapacity: 50},
	}, off.Sections)
}

func TestGroupOfferings_Idempotent(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "TUT", 20, 25, "Bob")
	add(t, s, "CMPT", "276", 1254, "Surrey", "LEC", 30, 40, "Carol")

	first := groupedFor(t, s, "CMPT", "276")
	second := groupedFor(t, s, "CMPT", "276")
	assert.Equal(t, first, second)
	assert.Equal(t, s.Dump(), s.Dump())
}

func TestGroupOfferings_SeparateKeys(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")
	add(t, s, "CMPT", "276", 1257, "Surrey", "LEC", 20, 30, "Alice")
	add(t, s, "CMPT", "276", 1254, "Burnaby", "LEC", 5, 10, "Alice")

	grouped := groupedFor(t, s, "CMPT", "276")
	assert.Len(t, grouped, 3)
	assert.Contains(t, grouped, "1257_Surrey")
	assert.Contains(t, grouped, "1254_Burnaby")
}

func TestGroupOfferings_InstructorDedup(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 1, 1, "Alice, Bob")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LAB", 1, 1, "Bob, Carol, .")

	off := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	assert.Equal(t, "Alice, Bob, Carol", off.InstructorList())
}

func TestGroupOfferings_ReturnsCopies(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")

	grouped := groupedFor(t, s, "CMPT", "276")
	off := grouped["1257_Burnaby"]
	off.Sections[0].EnrollmentTotal = 9999
	off.Instructors[0] = "Mallory"

	again := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	assert.Equal(t, 80, again.Sections[0].EnrollmentTotal)
	assert.Equal(t, "Alice", again.Instructors[0])
}

func TestGroupCourses(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")
	add(t, s, "CMPT", "225", 1257, "Burnaby", "LEC", 150, 200, "Dave")

	d, err := s.FindDepartment("cmpt")
	require.NoError(t, err)
	courses, err := s.GroupCourses(d.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "225", courses["225"].CatalogNumber)
	assert.Len(t, courses["276"].Offerings, 1)

	_, err = s.GroupCourses(42)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestLookups(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "math", "100", 1251, "Surrey", "LEC", 1, 2, "Dan")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 1, 2, "Eve")
	add(t, s, "Bus", "251", 1257, "Burnaby", "LEC", 1, 2, "Fay")

	var subjects []string
	for _, d := range s.Departments() {
		subjects = append(subjects, d.Subject)
	}
	assert.Equal(t, []string{"Bus", "CMPT", "math"}, subjects)

	d, err := s.FindDepartment("MATH")
	require.NoError(t, err)
	assert.Equal(t, "math", d.Subject)

	byID, err := s.Department(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, byID)

	_, err = s.FindDepartment("ENSC")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	_, err = s.FindCourse(d.ID, "999")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	_, err = s.GroupOfferings(999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestAddOffering_Validation(t *testing.T) {
	s := NewStore(semester.Default)

	tests := []struct {
		name string
		in   AddOfferingInput
		want error
	}{
		{"bad semester digit", AddOfferingInput{Subject: "CMPT", CatalogNumber: "1", SemesterCode: 1252, Location: "B", Component: "LEC"}, apperrors.ErrInvalidSemesterCode},
		{"negative code", AddOfferingInput{Subject: "CMPT", CatalogNumber: "1", SemesterCode: -7, Location: "B", Component: "LEC"}, apperrors.ErrInvalidSemesterCode},
		{"no subject", AddOfferingInput{CatalogNumber: "1", SemesterCode: 1257, Location: "B", Component: "LEC"}, apperrors.ErrValidationFailed},
		{"no number", AddOfferingInput{Subject: "CMPT", SemesterCode: 1257, Location: "B", Component: "LEC"}, apperrors.ErrValidationFailed},
		{"no location", AddOfferingInput{Subject: "CMPT", CatalogNumber: "1", SemesterCode: 1257, Component: "LEC"}, apperrors.ErrValidationFailed},
		{"no component", AddOfferingInput{Subject: "CMPT", CatalogNumber: "1", SemesterCode: 1257, Location: "B"}, apperrors.ErrValidationFailed},
		{"negative enrollment", AddOfferingInput{Subject: "CMPT", CatalogNumber: "1", SemesterCode: 1257, Location: "B", Component: "LEC", EnrollmentTotal: -1}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddOffering(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, s.Departments())
}

func TestAddOffering_KeyReplaces(t *testing.T) {
	s := NewStore(semester.Default)
	in := AddOfferingInput{
		Subject: "CMPT", CatalogNumber: "276", SemesterCode: 1257, Location: "Burnaby",
		Component: "LEC", EnrollmentTotal: 80, EnrollmentCap: 100, Instructors: "Alice", Key: "cmpt276-d100",
	}
	first, err := s.AddOffering(in)
	require.NoError(t, err)

	in.EnrollmentTotal = 95
	in.Instructors = "Alice, Bob"
	second, err := s.AddOffering(in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, s.Stats().Offerings)

	off := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	assert.Equal(t, []Section{{ComponentCode: "LEC", EnrollmentTotal: 95, EnrollmentCapacity: 100}}, off.Sections)
	assert.Equal(t, "Alice, Bob", off.InstructorList())

	in.Location = "Surrey"
	_, err = s.AddOffering(in)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestAddOffering_WithoutKeyAccumulates(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")

	off := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	assert.Equal(t, 160, off.Sections[0].EnrollmentTotal)
	assert.Equal(t, 2, s.Stats().Offerings)
}

func TestLoad(t *testing.T) {
	rows := []models.CourseDataRow{
		{SemesterCode: 1257, Subject: "CMPT", CatalogNumber: "276", Location: "Burnaby", EnrollmentCapacity: 100, EnrollmentTotal: 80, Instructors: "Alice", ComponentCode: "LEC"},
		{SemesterCode: 1257, Subject: "CMPT", CatalogNumber: "276", Location: "Burnaby", EnrollmentCapacity: 25, EnrollmentTotal: 20, Instructors: "Bob", ComponentCode: "TUT"},
		{SemesterCode: 1257, Subject: "CMPT", CatalogNumber: "276", Location: "Burnaby", EnrollmentCapacity: 25, EnrollmentTotal: 15, Instructors: "Bob", ComponentCode: "TUT"},
		{SemesterCode: 1254, Subject: "MATH", CatalogNumber: "100", Location: "Surrey", EnrollmentCapacity: 50, EnrollmentTotal: 45, Instructors: "Carol", ComponentCode: "LEC"},
	}

	s := NewStore(semester.Default)
	stats, err := s.Load(rows)
	require.NoError(t, err)
	assert.Equal(t, LoadStats{Rows: 4, Departments: 2, Courses: 2, Offerings: 4}, stats)
	dump := s.Dump()

	// a retried load replaces rather than double counts
	_, err = s.Load(rows)
	require.NoError(t, err)
	assert.Equal(t, dump, s.Dump())

	off := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	tut, ok := off.Section("TUT")
	require.True(t, ok)
	assert.Equal(t, 35, tut.EnrollmentTotal)
}

func TestLoad_KeyedRowsReplaceOnRetry(t *testing.T) {
	s := NewStore(semester.Default)
	_, err := s.Load([]models.CourseDataRow{
		{SemesterCode: 1257, Subject: "CMPT", CatalogNumber: "276", Location: "Burnaby", EnrollmentCapacity: 100, EnrollmentTotal: 80, ComponentCode: "LEC", IdempotencyKey: "k1"},
	})
	require.NoError(t, err)

	_, err = s.AddOffering(AddOfferingInput{
		Subject: "cmpt", CatalogNumber: "276", SemesterCode: 1257, Location: "Burnaby",
		Component: "LEC", EnrollmentTotal: 85, EnrollmentCap: 100, Key: "k1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().Offerings)

	off := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	assert.Equal(t, []Section{{ComponentCode: "LEC", EnrollmentTotal: 85, EnrollmentCapacity: 100}}, off.Sections)
}

func TestCheckOffering(t *testing.T) {
	s := NewStore(semester.Default)
	in := AddOfferingInput{
		Subject: "CMPT", CatalogNumber: "276", SemesterCode: 1257, Location: "Burnaby",
		Component: "LEC", EnrollmentTotal: 80, EnrollmentCap: 100, Key: "k1",
	}
	require.NoError(t, s.CheckOffering(in))
	assert.Empty(t, s.Departments())

	_, err := s.AddOffering(in)
	require.NoError(t, err)
	assert.NoError(t, s.CheckOffering(in))

	moved := in
	moved.Location = "Surrey"
	assert.ErrorIs(t, s.CheckOffering(moved), apperrors.ErrResourceAlreadyExists)

	bad := in
	bad.SemesterCode = 1255
	assert.ErrorIs(t, s.CheckOffering(bad), apperrors.ErrInvalidSemesterCode)
	bad = in
	bad.EnrollmentCap = -1
	assert.ErrorIs(t, s.CheckOffering(bad), apperrors.ErrValidationFailed)
}

func TestLoad_InvalidRowKeepsCatalog(t *testing.T) {
	s := NewStore(semester.Default)
	add(t, s, "CMPT", "276", 1257, "Burnaby", "LEC", 80, 100, "Alice")
	before := s.Dump()

	_, err := s.Load([]models.CourseDataRow{
		{SemesterCode: 1257, Subject: "MATH", CatalogNumber: "100", Location: "Surrey", ComponentCode: "LEC"},
		{SemesterCode: 1253, Subject: "MATH", CatalogNumber: "100", Location: "Surrey", ComponentCode: "LEC"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSemesterCode))
	assert.Contains(t, err.Error(), "row 1")
	assert.Equal(t, before, s.Dump())
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(semester.Default)

	const writers = 8
	const perWriter = 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := s.AddOffering(AddOfferingInput{
					Subject:         "CMPT",
					CatalogNumber:   "276",
					SemesterCode:    1257,
					Location:        "Burnaby",
					Component:       "LEC",
					EnrollmentTotal: 1,
					EnrollmentCap:   2,
					Instructors:     fmt.Sprintf("Instructor %d", w),
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = s.Dump()
				_ = s.Departments()
			}
		}()
	}
	wg.Wait()

	require.Len(t, s.Departments(), 1)
	off := groupedFor(t, s, "CMPT", "276")["1257_Burnaby"]
	assert.Equal(t, []Section{{ComponentCode: "LEC", EnrollmentTotal: writers * perWriter, EnrollmentCapacity: 2 * writers * perWriter}}, off.Sections)
	assert.Len(t, off.Instructors, writers)
}

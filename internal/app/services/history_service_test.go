package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/app/models/dto"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

func TestRangeSemesters(t *testing.T) {
	assert.Equal(t, 3, RangeSemesters("1yr"))
	assert.Equal(t, 9, RangeSemesters("3YR"))
	assert.Equal(t, 15, RangeSemesters("5yr"))
	assert.Equal(t, 15, RangeSemesters(""))
	assert.Equal(t, 15, RangeSemesters("10yr"))
}

func TestEnrollmentHistory(t *testing.T) {
	fetcher := &fakeFetcher{bySem: map[int][]models.OfferingRecord{
		1261: {{SemesterCode: 1261, Enrolled: 90, Capacity: 100}, {SemesterCode: 1261, Enrolled: 30, Capacity: 50}},
		1257: {{SemesterCode: 1257, Enrolled: 1, Capacity: 3}},
	}}
	terms := NewTermResolver(&fakeTerms{enrolling: &models.Term{Year: 2026, Term: semester.Spring, SemesterCode: 1261}},
		semester.Default, 1257, zerolog.Nop())
	svc := NewHistoryService(fetcher, terms, semester.Default, 2, zerolog.Nop())

	points, err := svc.EnrollmentHistory(context.Background(), "CMPT", "276", "1yr")
	require.NoError(t, err)

	assert.Equal(t, []dto.EnrollmentPoint{
		{SemesterCode: 1254, Term: "Summer", Year: 2025},
		{SemesterCode: 1257, Term: "Fall", Year: 2025, Enrolled: 1, Capacity: 3, LoadPercent: 100.0 / 3},
		{SemesterCode: 1261, Term: "Spring", Year: 2026, Enrolled: 120, Capacity: 150, LoadPercent: 80},
	}, points)
	assert.ElementsMatch(t, []int{1261, 1257, 1254}, fetcher.calls)
}

func TestEnrollmentHistory_FallsBackToCurrentTerm(t *testing.T) {
	fetcher := &fakeFetcher{}
	terms := NewTermResolver(&fakeTerms{current: &models.Term{SemesterCode: 1254}}, semester.Default, 1261, zerolog.Nop())
	svc := NewHistoryService(fetcher, terms, semester.Default, 4, zerolog.Nop())

	points, err := svc.EnrollmentHistory(context.Background(), "CMPT", "276", "3yr")
	require.NoError(t, err)
	require.Len(t, points, 9)
	assert.Equal(t, 1227, points[0].SemesterCode)
	assert.Equal(t, 1254, points[8].SemesterCode)
	for _, p := range points {
		assert.Zero(t, p.LoadPercent)
	}
}

func TestEnrollmentHistory_StopsAtBaseYear(t *testing.T) {
	terms := NewTermResolver(nil, semester.Default, 4, zerolog.Nop())
	svc := NewHistoryService(&fakeFetcher{}, terms, semester.Default, 1, zerolog.Nop())

	points, err := svc.EnrollmentHistory(context.Background(), "CMPT", "276", "5yr")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].SemesterCode)
	assert.Equal(t, 4, points[1].SemesterCode)
}

func TestEnrollmentHistory_Errors(t *testing.T) {
	terms := NewTermResolver(nil, semester.Default, 1257, zerolog.Nop())

	svc := NewHistoryService(&fakeFetcher{failSem: 1254}, terms, semester.Default, 2, zerolog.Nop())
	_, err := svc.EnrollmentHistory(context.Background(), "CMPT", "276", "1yr")
	assert.EqualError(t, err, "boom")

	_, err = svc.EnrollmentHistory(context.Background(), " ", "276", "1yr")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestTermResolver(t *testing.T) {
	ctx := context.Background()

	r := NewTermResolver(&fakeTerms{enrolling: &models.Term{SemesterCode: 1261}, current: &models.Term{SemesterCode: 1257}},
		semester.Default, 1254, zerolog.Nop())
	sem, err := r.Enrolling(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1261, sem.Code)

	r = NewTermResolver(&fakeTerms{}, semester.Default, 1254, zerolog.Nop())
	sem, err = r.Enrolling(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1254, sem.Code)

	r = NewTermResolver(&fakeTerms{err: errors.New("db down")}, semester.Default, 1257, zerolog.Nop())
	sem, err = r.Enrolling(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1257, sem.Code)

	r = NewTermResolver(nil, semester.Default, 1258, zerolog.Nop())
	_, err = r.Enrolling(ctx)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterCode)
}

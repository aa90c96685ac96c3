package services

import (
	"context"
	"errors"
	"sync"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

type fakeCourseData struct {
	rows      []models.CourseDataRow
	err       error
	insertErr error
	mu        sync.Mutex
	inserted  []models.CourseDataRow
}

// ListAll returns the seeded rows followed by everything inserted since.
func (f *fakeCourseData) ListAll(ctx context.Context) ([]models.CourseDataRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.CourseDataRow(nil), f.rows...)
	return append(out, f.inserted...), f.err
}

// Insert upserts on the idempotency key like the course_data table does.
func (f *fakeCourseData) Insert(ctx context.Context, row models.CourseDataRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if row.IdempotencyKey != "" {
		for i, prev := range f.inserted {
			if prev.IdempotencyKey == row.IdempotencyKey {
				f.inserted[i] = row
				return nil
			}
		}
	}
	f.inserted = append(f.inserted, row)
	return nil
}

type fakeTerms struct {
	enrolling *models.Term
	current   *models.Term
	err       error
}

func (f *fakeTerms) GetEnrolling(ctx context.Context) (*models.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.enrolling == nil {
		return nil, apperrors.ErrTermNotFound
	}
	return f.enrolling, nil
}

func (f *fakeTerms) GetCurrent(ctx context.Context) (*models.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.current == nil {
		return nil, apperrors.ErrTermNotFound
	}
	return f.current, nil
}

// fakeFetcher serves canned records per semester code and records calls
type fakeFetcher struct {
	mu      sync.Mutex
	bySem   map[int][]models.OfferingRecord
	calls   []int
	failSem int
}

func (f *fakeFetcher) FetchCourseSections(ctx context.Context, dept, number string, semesterCode int) (*models.BrowseResult, error) {
	sem, err := semester.Decode(semesterCode)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, semesterCode)
	if semesterCode == f.failSem {
		return nil, errors.New("boom")
	}
	records := append([]models.OfferingRecord{}, f.bySem[semesterCode]...)
	return &models.BrowseResult{
		Dept:         dept,
		CourseNumber: number,
		Year:         sem.Year,
		Term:         sem.Term,
		SemesterCode: semesterCode,
		Offerings:    records,
	}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.CatalogEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event models.CatalogEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fakeGrades struct {
	grades *models.CourseGrades
	err    error
}

func (f *fakeGrades) GetGrades(ctx context.Context, subject, catalogNumber string) (*models.CourseGrades, error) {
	return f.grades, f.err
}

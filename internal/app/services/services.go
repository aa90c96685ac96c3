// Package services holds the application logic between the controllers and
// the catalog store, feed client and repositories.
package services

import (
	"context"

	"github.com/yigit/courseplanner/internal/app/models"
)

// CourseDataSource supplies the bulk rows the catalog is built from
type CourseDataSource interface {
	ListAll(ctx context.Context) ([]models.CourseDataRow, error)
}

// CourseDataWriter persists add-offering observations so the next bulk load
// includes them
type CourseDataWriter interface {
	Insert(ctx context.Context, row models.CourseDataRow) error
}

// TermSource reports the current and enrolling terms
type TermSource interface {
	GetEnrolling(ctx context.Context) (*models.Term, error)
	GetCurrent(ctx context.Context) (*models.Term, error)
}

// GradeSource supplies historical grade statistics
type GradeSource interface {
	GetGrades(ctx context.Context, subject, catalogNumber string) (*models.CourseGrades, error)
}

// SectionFetcher fetches live sections from the registrar feed
type SectionFetcher interface {
	FetchCourseSections(ctx context.Context, dept, number string, semesterCode int) (*models.BrowseResult, error)
}

// EventPublisher delivers catalog events to watchers
type EventPublisher interface {
	Publish(ctx context.Context, event models.CatalogEvent) error
}

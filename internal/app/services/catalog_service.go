package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/courseplanner/internal/app/catalog"
	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/app/models/dto"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// eventTimeLayout renders event times like "Fri Oct 16 14:03:00 PDT 2026"
const eventTimeLayout = "Mon Jan 02 15:04:05 MST 2006"

// CatalogService defines the interface for catalog operations
type CatalogService interface {
	Load(ctx context.Context) (catalog.LoadStats, error)
	Departments(ctx context.Context) []dto.DepartmentResponse
	Courses(ctx context.Context, deptID int64) ([]dto.CourseResponse, error)
	Offerings(ctx context.Context, deptID, courseID int64) ([]dto.OfferingResponse, error)
	OfferingSections(ctx context.Context, deptID, courseID, offeringID int64) ([]dto.SectionResponse, error)
	CourseLoad(ctx context.Context, deptID, courseID int64) ([]catalog.LoadPoint, error)
	StudentsPerSemester(ctx context.Context, deptID int64) ([]catalog.SemesterCount, error)
	AddOffering(ctx context.Context, req *dto.AddOfferingRequest) (*models.CatalogEvent, error)
	Events(ctx context.Context, subject, catalogNumber string) []models.CatalogEvent
	Dump(ctx context.Context) string
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	store     *catalog.Store
	codec     semester.Codec
	source    CourseDataSource
	writer    CourseDataWriter
	publisher EventPublisher
	events    *EventLog
	validate  *validator.Validate
	now       func() time.Time
	logger    zerolog.Logger
}

// CatalogServiceOption customizes a catalog service
type CatalogServiceOption func(*catalogServiceImpl)

// WithCourseDataWriter persists every added offering
func WithCourseDataWriter(w CourseDataWriter) CatalogServiceOption {
	return func(s *catalogServiceImpl) { s.writer = w }
}

// WithEventPublisher forwards catalog events to watchers
func WithEventPublisher(p EventPublisher) CatalogServiceOption {
	return func(s *catalogServiceImpl) { s.publisher = p }
}

// WithClock overrides the time source for event timestamps
func WithClock(now func() time.Time) CatalogServiceOption {
	return func(s *catalogServiceImpl) { s.now = now }
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	store *catalog.Store,
	codec semester.Codec,
	source CourseDataSource,
	events *EventLog,
	logger zerolog.Logger,
	opts ...CatalogServiceOption,
) CatalogService {
	s := &catalogServiceImpl{
		store:    store,
		codec:    codec,
		source:   source,
		events:   events,
		validate: newValidator(codec),
		now:      time.Now,
		logger:   logger.With().Str("component", "catalog_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load rebuilds the catalog from the persistence source
func (s *catalogServiceImpl) Load(ctx context.Context) (catalog.LoadStats, error) {
	if s.source == nil {
		return catalog.LoadStats{}, fmt.Errorf("no course data source configured")
	}

	started := s.now()
	rows, err := s.source.ListAll(ctx)
	if err != nil {
		return catalog.LoadStats{}, fmt.Errorf("error reading course data: %w", err)
	}

	stats, err := s.store.Load(rows)
	if err != nil {
		return catalog.LoadStats{}, fmt.Errorf("error loading catalog: %w", err)
	}

	s.logger.Info().
		Int("rows", stats.Rows).
		Int("departments", stats.Departments).
		Int("courses", stats.Courses).
		Int("offerings", stats.Offerings).
		Dur("took", s.now().Sub(started)).
		Msg("Catalog loaded")
	return stats, nil
}

// Departments lists every department sorted by subject
func (s *catalogServiceImpl) Departments(ctx context.Context) []dto.DepartmentResponse {
	depts := s.store.Departments()
	out := make([]dto.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, dto.NewDepartmentResponse(d))
	}
	return out
}

// Courses lists a department's courses sorted by catalog number
func (s *catalogServiceImpl) Courses(ctx context.Context, deptID int64) ([]dto.CourseResponse, error) {
	courses, err := s.store.Courses(deptID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, dto.NewCourseResponse(c.Course))
	}
	return out, nil
}

// Offerings lists a course's grouped offerings by semester then location
func (s *catalogServiceImpl) Offerings(ctx context.Context, deptID, courseID int64) ([]dto.OfferingResponse, error) {
	offerings, err := s.store.Offerings(deptID, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OfferingResponse, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, dto.NewOfferingResponse(o))
	}
	return out, nil
}

// OfferingSections returns the merged sections of one grouped offering
func (s *catalogServiceImpl) OfferingSections(ctx context.Context, deptID, courseID, offeringID int64) ([]dto.SectionResponse, error) {
	offerings, err := s.store.Offerings(deptID, courseID)
	if err != nil {
		return nil, err
	}
	for _, o := range offerings {
		if o.ID == offeringID {
			return dto.NewSectionResponses(o), nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", apperrors.ErrOfferingNotFound, offeringID)
}

// CourseLoad aggregates lecture load per semester for one course
func (s *catalogServiceImpl) CourseLoad(ctx context.Context, deptID, courseID int64) ([]catalog.LoadPoint, error) {
	offerings, err := s.store.Offerings(deptID, courseID)
	if err != nil {
		return nil, err
	}
	return catalog.CourseLoad(offerings), nil
}

// StudentsPerSemester sums lecture enrollment per semester for a department
func (s *catalogServiceImpl) StudentsPerSemester(ctx context.Context, deptID int64) ([]catalog.SemesterCount, error) {
	courses, err := s.store.Courses(deptID)
	if err != nil {
		return nil, err
	}
	return catalog.StudentsPerSemester(courses), nil
}

// AddOffering validates one observation, persists it, applies it to the
// catalog, then records and publishes the resulting event. A persistence
// failure leaves the catalog untouched; publishing failures are logged only.
func (s *catalogServiceImpl) AddOffering(ctx context.Context, req *dto.AddOfferingRequest) (*models.CatalogEvent, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidationFailed, err)
	}

	in := catalog.AddOfferingInput{
		Subject:         req.Subject,
		CatalogNumber:   req.CatalogNumber,
		SemesterCode:    req.SemesterCode,
		Location:        req.Location,
		Component:       req.Component,
		EnrollmentTotal: req.EnrollmentTotal,
		EnrollmentCap:   req.EnrollmentCap,
		Instructors:     req.Instructor,
		Key:             req.Key,
	}
	if err := s.store.CheckOffering(in); err != nil {
		return nil, err
	}

	// Persisted before the catalog changes; a failed insert leaves the catalog as it was.
	if s.writer != nil {
		row := models.CourseDataRow{
			SemesterCode:       req.SemesterCode,
			Subject:            req.Subject,
			CatalogNumber:      req.CatalogNumber,
			Location:           req.Location,
			EnrollmentCapacity: req.EnrollmentCap,
			EnrollmentTotal:    req.EnrollmentTotal,
			Instructors:        req.Instructor,
			ComponentCode:      req.Component,
			IdempotencyKey:     req.Key,
		}
		if err := s.writer.Insert(ctx, row); err != nil {
			return nil, fmt.Errorf("error persisting offering: %w", err)
		}
	}

	offering, err := s.store.AddOffering(in)
	if err != nil {
		return nil, err
	}

	event := s.newEvent(req, offering.Semester)
	s.events.Record(event)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("event", event.ID).Msg("Failed to publish catalog event")
		}
	}

	s.logger.Info().
		Str("subject", event.Subject).
		Str("number", event.CatalogNumber).
		Int("semester", event.SemesterCode).
		Str("component", event.Component).
		Msg("Offering added")
	return &event, nil
}

func (s *catalogServiceImpl) newEvent(req *dto.AddOfferingRequest, sem semester.Semester) models.CatalogEvent {
	now := s.now()
	component := catalog.NormalizeComponent(req.Component)
	return models.CatalogEvent{
		ID:              uuid.NewString(),
		Subject:         req.Subject,
		CatalogNumber:   req.CatalogNumber,
		SemesterCode:    sem.Code,
		Year:            sem.Year,
		Term:            sem.Term.Capitalized(),
		Location:        req.Location,
		Component:       component,
		EnrollmentTotal: req.EnrollmentTotal,
		EnrollmentCap:   req.EnrollmentCap,
		Description: fmt.Sprintf("%s: Added section %s with enrollment (%d / %d) to offering %s %d",
			now.Format(eventTimeLayout), component, req.EnrollmentTotal, req.EnrollmentCap,
			sem.Term.Capitalized(), sem.Year),
		OccurredAt: now,
	}
}

// Events returns the recent events of a course
func (s *catalogServiceImpl) Events(ctx context.Context, subject, catalogNumber string) []models.CatalogEvent {
	return s.events.Events(subject, catalogNumber)
}

// Dump renders the whole grouped catalog as text
func (s *catalogServiceImpl) Dump(ctx context.Context) string {
	return s.store.Dump()
}

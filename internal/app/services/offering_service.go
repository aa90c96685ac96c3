package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// OfferingService defines the interface for live offering lookups
type OfferingService interface {
	LiveOfferings(ctx context.Context, dept, number string, semesterCode int) (*models.BrowseResult, error)
}

// offeringServiceImpl implements OfferingService
type offeringServiceImpl struct {
	fetcher SectionFetcher
	terms   *TermResolver
	logger  zerolog.Logger
}

// NewOfferingService creates a new OfferingService
func NewOfferingService(fetcher SectionFetcher, terms *TermResolver, logger zerolog.Logger) OfferingService {
	return &offeringServiceImpl{
		fetcher: fetcher,
		terms:   terms,
		logger:  logger.With().Str("component", "offering_service").Logger(),
	}
}

// LiveOfferings fetches the sections of a course in one semester and flags
// those in the enrolling semester. A zero semester code means the enrolling one.
func (s *offeringServiceImpl) LiveOfferings(ctx context.Context, dept, number string, semesterCode int) (*models.BrowseResult, error) {
	if strings.TrimSpace(dept) == "" || strings.TrimSpace(number) == "" {
		return nil, apperrors.NewValidationError("dept and number are required")
	}

	enrolling, err := s.terms.Enrolling(ctx)
	if err != nil {
		return nil, err
	}
	if semesterCode == 0 {
		semesterCode = enrolling.Code
	}

	result, err := s.fetcher.FetchCourseSections(ctx, dept, number, semesterCode)
	if err != nil {
		return nil, err
	}

	for i := range result.Offerings {
		result.Offerings[i].Enrolling = result.Offerings[i].SemesterCode == enrolling.Code
	}

	s.logger.Debug().
		Str("dept", result.Dept).
		Str("number", result.CourseNumber).
		Int("semester", semesterCode).
		Int("sections", len(result.Offerings)).
		Msg("Live offerings fetched")
	return result, nil
}

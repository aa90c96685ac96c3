package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/courseplanner/internal/app/models/dto"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// Semesters covered by each history range
var historyRanges = map[string]int{
	"1yr": 3,
	"3yr": 9,
	"5yr": 15,
}

const defaultHistoryRange = "5yr"

// HistoryService defines the interface for enrollment history
type HistoryService interface {
	EnrollmentHistory(ctx context.Context, dept, number, rng string) ([]dto.EnrollmentPoint, error)
}

// historyServiceImpl implements HistoryService
type historyServiceImpl struct {
	fetcher     SectionFetcher
	terms       *TermResolver
	codec       semester.Codec
	concurrency int
	logger      zerolog.Logger
}

// NewHistoryService creates a new HistoryService fetching at most concurrency
// semesters at once
func NewHistoryService(fetcher SectionFetcher, terms *TermResolver, codec semester.Codec, concurrency int, logger zerolog.Logger) HistoryService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &historyServiceImpl{
		fetcher:     fetcher,
		terms:       terms,
		codec:       codec,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "history_service").Logger(),
	}
}

// RangeSemesters returns how many semesters a range covers. Unknown ranges
// fall back to five years.
func RangeSemesters(rng string) int {
	if n, ok := historyRanges[strings.ToLower(strings.TrimSpace(rng))]; ok {
		return n
	}
	return historyRanges[defaultHistoryRange]
}

// EnrollmentHistory returns summed enrollment per semester, oldest first,
// ending at the enrolling semester. Semesters without sections still yield a
// zero point.
func (s *historyServiceImpl) EnrollmentHistory(ctx context.Context, dept, number, rng string) ([]dto.EnrollmentPoint, error) {
	if strings.TrimSpace(dept) == "" || strings.TrimSpace(number) == "" {
		return nil, apperrors.NewValidationError("dept and number are required")
	}

	start, err := s.terms.Enrolling(ctx)
	if err != nil {
		return nil, err
	}

	semesters, err := s.walkBack(start, RangeSemesters(rng))
	if err != nil {
		return nil, err
	}

	points := make([]dto.EnrollmentPoint, len(semesters))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, sem := range semesters {
		i, sem := i, sem
		g.Go(func() error {
			result, err := s.fetcher.FetchCourseSections(gctx, dept, number, sem.Code)
			if err != nil {
				return err
			}
			enrolled, capacity := result.Totals()
			// semesters are newest first; points are oldest first
			points[len(semesters)-1-i] = dto.NewEnrollmentPoint(sem, enrolled, capacity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("dept", dept).Str("number", number).Int("points", len(points)).Msg("Enrollment history built")
	return points, nil
}

// walkBack lists n semesters ending at start, newest first. It stops early at
// the codec's base year.
func (s *historyServiceImpl) walkBack(start semester.Semester, n int) ([]semester.Semester, error) {
	out := make([]semester.Semester, 0, n)
	cur := start
	for len(out) < n {
		out = append(out, cur)
		prev, err := s.codec.Previous(cur.Year, string(cur.Term))
		if errors.Is(err, apperrors.ErrInvalidYear) {
			break
		}
		if err != nil {
			return nil, err
		}
		cur = prev
	}
	return out, nil
}

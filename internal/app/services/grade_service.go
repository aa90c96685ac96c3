package services

import (
	"context"
	"strings"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// GradeService defines the interface for grade distribution lookups
type GradeService interface {
	Grades(ctx context.Context, dept, number string) (*models.CourseGrades, error)
}

// gradeServiceImpl implements GradeService
type gradeServiceImpl struct {
	source GradeSource
}

// NewGradeService creates a new GradeService
func NewGradeService(source GradeSource) GradeService {
	return &gradeServiceImpl{source: source}
}

// Grades returns the typed grade distribution of a course
func (s *gradeServiceImpl) Grades(ctx context.Context, dept, number string) (*models.CourseGrades, error) {
	dept, number = strings.TrimSpace(dept), strings.TrimSpace(number)
	if dept == "" || number == "" {
		return nil, apperrors.NewValidationError("dept and number are required")
	}
	if s.source == nil {
		return nil, apperrors.ErrGradesNotFound
	}
	return s.source.GetGrades(ctx, dept, number)
}

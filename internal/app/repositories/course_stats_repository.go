package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// CourseStatsRepository reads historical grade statistics
type CourseStatsRepository struct {
	db *pgxpool.Pool
}

// NewCourseStatsRepository creates a new course stats repository
func NewCourseStatsRepository(db *pgxpool.Pool) *CourseStatsRepository {
	return &CourseStatsRepository{db: db}
}

// GetGrades returns the typed grade summary of a course. The stored JSON is
// validated here, so callers only ever see known grade buckets.
func (r *CourseStatsRepository) GetGrades(ctx context.Context, subject, catalogNumber string) (*models.CourseGrades, error) {
	query := `
		SELECT subject, catalog_number, title, COALESCE(median_grade, ''), COALESCE(fail_rate, 0), grade_distribution
		FROM course_stats
		WHERE UPPER(subject) = UPPER($1) AND catalog_number = $2
	`

	var (
		grades models.CourseGrades
		raw    map[string]any
	)
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(subject), strings.TrimSpace(catalogNumber)).Scan(
		&grades.DeptCode,
		&grades.CourseNumber,
		&grades.Title,
		&grades.MedianGrade,
		&grades.FailRate,
		&raw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradesNotFound
		}
		return nil, fmt.Errorf("error retrieving course stats: %w", err)
	}

	if raw == nil {
		return nil, apperrors.ErrGradesNotFound
	}

	grades.Distribution, err = models.NewGradeDistribution(raw)
	if err != nil {
		return nil, fmt.Errorf("course %s %s: %w", subject, catalogNumber, err)
	}
	return &grades, nil
}

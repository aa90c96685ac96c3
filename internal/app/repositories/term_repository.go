package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/dberrors"
)

// TermRepository handles the terms table
type TermRepository struct {
	db *pgxpool.Pool
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *pgxpool.Pool) *TermRepository {
	return &TermRepository{db: db}
}

const termColumns = `id, year, term, semester_code, is_current, is_enrolling`

func scanTerm(row pgx.Row) (*models.Term, error) {
	var t models.Term
	if err := row.Scan(&t.ID, &t.Year, &t.Term, &t.SemesterCode, &t.IsCurrent, &t.IsEnrolling); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}
	return &t, nil
}

// GetEnrolling returns the term currently open for enrollment
func (r *TermRepository) GetEnrolling(ctx context.Context) (*models.Term, error) {
	return scanTerm(r.db.QueryRow(ctx,
		`SELECT `+termColumns+` FROM terms WHERE is_enrolling ORDER BY semester_code DESC LIMIT 1`))
}

// GetCurrent returns the term in session
func (r *TermRepository) GetCurrent(ctx context.Context) (*models.Term, error) {
	return scanTerm(r.db.QueryRow(ctx,
		`SELECT `+termColumns+` FROM terms WHERE is_current ORDER BY semester_code DESC LIMIT 1`))
}

// Create inserts a term. A duplicate semester code yields ErrResourceAlreadyExists.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (year, term, semester_code, is_current, is_enrolling)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		term.Year, term.Term, term.SemesterCode, term.IsCurrent, term.IsEnrolling).Scan(&term.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "terms_semester_code_key") {
			return fmt.Errorf("%w: term %d", apperrors.ErrResourceAlreadyExists, term.SemesterCode)
		}
		return fmt.Errorf("error creating term: %w", err)
	}
	return nil
}

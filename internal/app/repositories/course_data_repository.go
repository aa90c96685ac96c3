package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// CourseDataRepository reads the bulk course_data table
type CourseDataRepository struct {
	db *pgxpool.Pool
}

// NewCourseDataRepository creates a new course data repository
func NewCourseDataRepository(db *pgxpool.Pool) *CourseDataRepository {
	return &CourseDataRepository{db: db}
}

// ListAll returns every row ordered by semester, subject and catalog number
func (r *CourseDataRepository) ListAll(ctx context.Context) ([]models.CourseDataRow, error) {
	query := `
		SELECT semester, subject, catalog_number, location,
		       enrollment_capacity, enrollment_total, COALESCE(instructors, ''), component_code,
		       COALESCE(idempotency_key, '')
		FROM course_data
		ORDER BY semester, subject, catalog_number, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying course data: %w", err)
	}
	defer rows.Close()

	var result []models.CourseDataRow
	for rows.Next() {
		var row models.CourseDataRow
		if err := rows.Scan(
			&row.SemesterCode,
			&row.Subject,
			&row.CatalogNumber,
			&row.Location,
			&row.EnrollmentCapacity,
			&row.EnrollmentTotal,
			&row.Instructors,
			&row.ComponentCode,
			&row.IdempotencyKey,
		); err != nil {
			return nil, fmt.Errorf("error scanning course data row: %w", err)
		}
		result = append(result, sanitizeRow(row))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Insert appends one row; used to persist add-offering observations. A row
// carrying an idempotency key replaces the earlier row with that key, provided
// it names the same offering; otherwise ErrResourceAlreadyExists is returned.
func (r *CourseDataRepository) Insert(ctx context.Context, row models.CourseDataRow) error {
	query := `
		INSERT INTO course_data (semester, subject, catalog_number, location,
		                         enrollment_capacity, enrollment_total, instructors, component_code,
		                         idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			enrollment_capacity = EXCLUDED.enrollment_capacity,
			enrollment_total = EXCLUDED.enrollment_total,
			instructors = EXCLUDED.instructors,
			component_code = EXCLUDED.component_code
		WHERE course_data.semester = EXCLUDED.semester
		  AND upper(course_data.subject) = upper(EXCLUDED.subject)
		  AND course_data.catalog_number = EXCLUDED.catalog_number
		  AND course_data.location = EXCLUDED.location
	`

	row = sanitizeRow(row)
	tag, err := r.db.Exec(ctx, query,
		row.SemesterCode, row.Subject, row.CatalogNumber, row.Location,
		row.EnrollmentCapacity, row.EnrollmentTotal, row.Instructors, row.ComponentCode,
		nullableKey(row.IdempotencyKey))
	if err != nil {
		return fmt.Errorf("error inserting course data row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists,
			fmt.Sprintf("key %q already used for a different offering", row.IdempotencyKey))
	}
	return nil
}

// nullableKey maps an empty key to NULL so unkeyed rows never conflict
func nullableKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}

// courseDataColumns are the columns written by CopyRows, in order
var courseDataColumns = []string{
	"semester", "subject", "catalog_number", "location",
	"enrollment_capacity", "enrollment_total", "instructors", "component_code",
	"idempotency_key",
}

// CopyRows bulk-loads rows inside tx and returns the number written
func (r *CourseDataRepository) CopyRows(ctx context.Context, tx pgx.Tx, rows []models.CourseDataRow) (int64, error) {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"course_data"}, courseDataColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := sanitizeRow(rows[i])
			return []any{
				row.SemesterCode, row.Subject, row.CatalogNumber, row.Location,
				row.EnrollmentCapacity, row.EnrollmentTotal, row.Instructors, row.ComponentCode,
				nullableKey(row.IdempotencyKey),
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("error copying course data rows: %w", err)
	}
	return n, nil
}

// Truncate removes every row inside tx
func (r *CourseDataRepository) Truncate(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `TRUNCATE course_data RESTART IDENTITY`); err != nil {
		return fmt.Errorf("error truncating course data: %w", err)
	}
	return nil
}

func sanitizeRow(row models.CourseDataRow) models.CourseDataRow {
	row.Subject = strings.TrimSpace(row.Subject)
	row.CatalogNumber = strings.TrimSpace(row.CatalogNumber)
	row.Location = strings.TrimSpace(row.Location)
	row.ComponentCode = strings.TrimSpace(row.ComponentCode)
	row.Instructors = sanitizeInstructors(row.Instructors)
	return row
}

// sanitizeInstructors maps the exporter's "(null)" marker to empty
func sanitizeInstructors(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "(null)") {
		return ""
	}
	return raw
}

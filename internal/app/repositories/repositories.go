package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseDataRepository  *CourseDataRepository
	TermRepository        *TermRepository
	CourseStatsRepository *CourseStatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseDataRepository:  NewCourseDataRepository(db),
		TermRepository:        NewTermRepository(db),
		CourseStatsRepository: NewCourseStatsRepository(db),
	}
}

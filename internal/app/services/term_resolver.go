package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// TermResolver decides which semester is open for enrollment
type TermResolver struct {
	terms    TermSource
	codec    semester.Codec
	fallback int
	logger   zerolog.Logger
}

// NewTermResolver creates a resolver. terms may be nil, in which case the
// fallback semester code is always used.
func NewTermResolver(terms TermSource, codec semester.Codec, fallback int, logger zerolog.Logger) *TermResolver {
	return &TermResolver{terms: terms, codec: codec, fallback: fallback, logger: logger}
}

// Enrolling returns the enrolling term, else the current term, else the
// configured fallback.
func (r *TermResolver) Enrolling(ctx context.Context) (semester.Semester, error) {
	if r.terms != nil {
		term, err := r.terms.GetEnrolling(ctx)
		if errors.Is(err, apperrors.ErrTermNotFound) {
			term, err = r.terms.GetCurrent(ctx)
		}
		switch {
		case err == nil:
			return r.codec.Decode(term.SemesterCode)
		case errors.Is(err, apperrors.ErrTermNotFound):
			r.logger.Debug().Int("fallback", r.fallback).Msg("No term rows, using configured enrolling semester")
		default:
			r.logger.Warn().Err(err).Int("fallback", r.fallback).Msg("Failed to read terms, using configured enrolling semester")
		}
	}
	return r.codec.Decode(r.fallback)
}

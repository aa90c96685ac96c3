package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// TermCreator inserts terms
type TermCreator interface {
	Create(ctx context.Context, term *appModels.Term) error
}

// CreateDefaultData makes sure the configured enrolling semester has a terms row.
// An existing row is left untouched.
func CreateDefaultData(ctx context.Context, terms TermCreator, codec semester.Codec, enrolling int, lgr zerolog.Logger) error {
	sem, err := codec.Decode(enrolling)
	if err != nil {
		return err
	}

	lgr.Info().Int("semester", sem.Code).Msg("Checking/Creating default enrolling term...")
	term := &appModels.Term{
		Year:         sem.Year,
		Term:         sem.Term,
		SemesterCode: sem.Code,
		IsEnrolling:  true,
	}

	err = terms.Create(ctx, term)
	switch {
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		lgr.Debug().Int("semester", sem.Code).Msg("Enrolling term already present")
		return nil
	case err != nil:
		lgr.Error().Err(err).Int("semester", sem.Code).Msg("Error creating enrolling term")
		return err
	}

	lgr.Info().Int64("id", term.ID).Str("term", sem.String()).Msg("Enrolling term created")
	return nil
}

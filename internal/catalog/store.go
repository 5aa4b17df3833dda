package catalog

import (
	"errors"
	"fmt"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	MaxPhotoCreate = 5 << 20
	MaxPhotoUpdate = 1_000_000

	LatestLimit  = 12
	PageSize     = 6
	RelatedLimit = 3
)

// Store is the catalog of categories and rooms.
type Store struct{ DB *pgxpool.Pool }

// dbErr maps driver errors onto apperr kinds. what names the entity for
// not-found messages.
func dbErr(op, what string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s %w", what, apperr.ErrNotFound)
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("%w: a %s with this name already exists", apperr.ErrConflict, what)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

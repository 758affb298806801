package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lendly/service-booking/internal/domain"
)

// classifyPgError translates constraint violations raised by Postgres into
// domain conflicts. The exclusion constraint on approved booking windows is
// the database-side backstop for the overlap invariant; unique violations
// cover duplicate user emails.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return domain.NewConflictError(domain.ReasonTimeOverlap,
			"an approved booking already covers this window")
	case pgerrcode.UniqueViolation:
		return domain.NewConflictError(domain.ReasonEmailTaken,
			"a record with the same unique value already exists")
	default:
		return err
	}
}

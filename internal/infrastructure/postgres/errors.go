package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
)

const uniqueViolation = "23505"

// mapWriteError turns a unique violation into entity.ErrDuplicateUser.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s (%s)", entity.ErrDuplicateUser, pgErr.Detail, pgErr.ConstraintName)
	}
	return err
}

package catalog

import (
	"errors"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	msgSetNotFound  = "Unable to find requested set"
	msgSetsNotFound = "Unable to find requested sets"

	msgDuplicateSet   = "set_num must be unique"
	msgDuplicateTheme = "theme id is already taken"
)

// storeMessage picks the first human-readable message the store reported.
// duplicate names the key that collided; it is used for unique violations.
func storeMessage(err error, duplicate string) string {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) && duplicate != "":
		return duplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return "theme_id must reference an existing theme"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Detail != "" {
			return pgErr.Message + ": " + pgErr.Detail
		}
		return pgErr.Message
	}
	return err.Error()
}

func validationError(err error, duplicate string) error {
	return apperr.Wrap(apperr.CodeValidation, storeMessage(err, duplicate), err)
}

func storeError(msg string, err error) error {
	return apperr.Wrap(apperr.CodeStore, msg, err)
}

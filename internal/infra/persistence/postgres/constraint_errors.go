package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SQLSTATE class 23 codes the repositories translate into domain errors.
const (
	sqlStateNotNull    = "23502"
	sqlStateForeignKey = "23503"
	sqlStateUnique     = "23505"
	sqlStateCheck      = "23514"
)

// constraintCode returns the SQLSTATE of an integrity violation, or "".
// gorm's TranslateError already maps some codes to sentinels, so both
// forms are recognised.
func constraintCode(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return pgErr.Code
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return sqlStateUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return sqlStateForeignKey
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return sqlStateCheck
	default:
		return ""
	}
}

func isUniqueConstraintViolation(err error) bool {
	return constraintCode(err) == sqlStateUnique
}

func isForeignKeyConstraintViolation(err error) bool {
	return constraintCode(err) == sqlStateForeignKey
}

func isNotNullConstraintViolation(err error) bool {
	return constraintCode(err) == sqlStateNotNull
}

func isCheckConstraintViolation(err error) bool {
	return constraintCode(err) == sqlStateCheck
}

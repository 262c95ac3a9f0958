package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows
}

package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

const (
	pqUniqueViolation           = "23505"
	pqInvalidTextRepresentation = "22P02"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// isMalformedID reports that postgres could not parse a value as a uuid.
// Such an id matches no row.
func isMalformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqInvalidTextRepresentation
}

// isNoRows treats a malformed id like an absent row
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || isMalformedID(err)
}

// insertError maps a failed insert. A malformed reference id is the
// caller's mistake, anything else is internal.
func insertError(what string, err error) error {
	if isMalformedID(err) {
		return apperrors.NewValidationError("malformed id in " + what)
	}
	return apperrors.NewInternalError("failed to create "+what, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches term literally
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func affected(result sql.Result, what string) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected for "+what, err)
	}
	return n > 0, nil
}

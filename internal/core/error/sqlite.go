package errx

import (
	"database/sql"
	"errors"
	"net/http"
)

// WrapStore maps database errors from the SQLite-backed stores to the unified
// AppError type with appropriate status codes.
func WrapStore(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, StoreNotFoundMessage)
	}

	return New(err, http.StatusBadGateway, StoreErrorMessage)
}

package errx

import (
	"database/sql"
	"errors"
	"net/http"
)

// WrapDB maps backing-store errors to the unified AppError type.
// sql.ErrNoRows is not an error at this layer; callers that treat an
// absent row as meaningful check for it before wrapping.
func WrapDB(err error) *AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, DBErrorMessage)
	}

	return New(err, http.StatusBadGateway, DBErrorMessage)
}

// DBUnavailable marks a connectivity failure that survived the reconnect
// attempt. It propagates to the tool caller as a hard error.
func DBUnavailable(err error) *AppError {
	return New(err, http.StatusServiceUnavailable, DBUnavailableMessage)
}

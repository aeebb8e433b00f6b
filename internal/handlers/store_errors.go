package handlers

import (
	"errors"

	"perfumery/internal/apperr"
	"perfumery/internal/store"
)

func storeFailure(op string, err error) error {
	return apperr.Store(op, err)
}

// lookupFailure maps store.ErrNotFound to a not-found error with msg.
func lookupFailure(op, msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Store(op, err)
}

// writeFailure additionally maps store.ErrDuplicate to a conflict.
func writeFailure(op, notFoundMsg, duplicateMsg string, err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Conflict(duplicateMsg)
	}
	return lookupFailure(op, notFoundMsg, err)
}

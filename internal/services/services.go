// Package services holds the business rules for accounts and events. Handlers
// call services; services call stores and enqueue notifications.
package services

import (
	"errors"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/store"
)

// storeError maps a store failure to the error taxonomy.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, store.ErrCapacityExceeded):
		return apperrors.ErrCapacityExceeded
	case errors.Is(err, store.ErrDuplicateEmail):
		return apperrors.Validation("Email is already registered")
	default:
		return apperrors.Internal(err)
	}
}

package services

import (
	"errors"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"
)

// Guard reports whether caller may read or mutate record.
type Guard[T any] func(record *T, caller models.Caller) bool

var (
	CanAccessTask Guard[models.Task] = func(t *models.Task, c models.Caller) bool {
		return t.UserID == c.ID
	}

	CanAccessAppointment Guard[models.Appointment] = func(a *models.Appointment, c models.Caller) bool {
		return a.PatientID == c.ID || a.DoctorID == c.ID || c.IsAdmin()
	}

	CanAccessDoctorProfile Guard[models.DoctorProfile] = func(p *models.DoctorProfile, c models.Caller) bool {
		return p.UserID == c.ID || c.IsAdmin()
	}
)

// Denial builds the error returned when a guard refuses an existing record.
type Denial func(resource string) *apperrors.Error

// HideExistence answers a refused lookup exactly like a missing record.
func HideExistence(resource string) *apperrors.Error {
	return apperrors.NotFound(resource)
}

// Forbid reveals the record exists but refuses access.
func Forbid(resource string) *apperrors.Error {
	return apperrors.Forbidden("not authorized to access this " + resource)
}

// authorize classifies a single-record lookup and applies the guard.
func authorize[T any](record *T, err error, caller models.Caller, guard Guard[T], resource string, deny Denial) (*T, error) {
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(resource)
		}
		return nil, apperrors.Internal("find "+resource, err)
	}
	if !guard(record, caller) {
		return nil, deny(resource)
	}
	return record, nil
}

// storeError maps repository failures on writes.
func storeError(op, resource string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.Validation(resource + " already exists")
	}
	return apperrors.Internal(op, err)
}

// Package repositories holds the persistence contracts the services depend
// on, plus the gorm implementation. The document-store implementation
// lives in mongostore.
package repositories

import (
	"context"
	"errors"

	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, q filters.Query) ([]models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDAndRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error)
	Save(ctx context.Context, user *models.User) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	List(ctx context.Context, q filters.Query) ([]models.Appointment, error)
	Save(ctx context.Context, appt *models.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorProfileRepository interface {
	Create(ctx context.Context, profile *models.DoctorProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DoctorProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DoctorProfile, error)
	List(ctx context.Context, q filters.Query) ([]models.DoctorProfile, error)
	Save(ctx context.Context, profile *models.DoctorProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles one implementation of every contract. Ping and Close
// let main treat either backend the same way.
type Repositories struct {
	Tasks          TaskRepository
	Users          UserRepository
	Appointments   AppointmentRepository
	DoctorProfiles DoctorProfileRepository

	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

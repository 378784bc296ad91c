package repositories

import (
	"context"
	"errors"
	"strings"

	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// NewGormRepositories expects db to have been opened with TranslateError.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tasks:          &gormTaskRepository{store: gormStore[models.Task]{db: db}},
		Users:          &gormUserRepository{store: gormStore[models.User]{db: db}},
		Appointments:   &gormAppointmentRepository{store: gormStore[models.Appointment]{db: db}},
		DoctorProfiles: &gormDoctorProfileRepository{store: gormStore[models.DoctorProfile]{db: db}},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

type gormStore[T any] struct {
	db *gorm.DB
}

func (s gormStore[T]) create(ctx context.Context, rec *T) error {
	return translate(s.db.WithContext(ctx).Create(rec).Error)
}

func (s gormStore[T]) first(ctx context.Context, query string, args ...interface{}) (*T, error) {
	var rec T
	if err := s.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (s gormStore[T]) list(ctx context.Context, q filters.Query) ([]T, error) {
	recs := []T{}
	if err := q.ApplyGorm(s.db.WithContext(ctx).Model(new(T))).Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	return recs, nil
}

// save writes every column of rec. A row deleted in the meantime is
// reported as ErrNotFound rather than recreated.
func (s gormStore[T]) save(ctx context.Context, rec *T) error {
	res := s.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s gormStore[T]) delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value"):
		return errors.Join(ErrDuplicate, err)
	}
	return err
}

type gormTaskRepository struct {
	store gormStore[models.Task]
}

func (r *gormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.store.create(ctx, task)
}

func (r *gormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return r.store.first(ctx, "id = ?", id)
}

func (r *gormTaskRepository) List(ctx context.Context, q filters.Query) ([]models.Task, error) {
	return r.store.list(ctx, q)
}

func (r *gormTaskRepository) Save(ctx context.Context, task *models.Task) error {
	return r.store.save(ctx, task)
}

func (r *gormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

type gormUserRepository struct {
	store gormStore[models.User]
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.create(ctx, user)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.store.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.store.first(ctx, "email = ?", email)
}

func (r *gormUserRepository) FindByIDAndRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	return r.store.first(ctx, "id = ? AND role = ?", id, string(role))
}

func (r *gormUserRepository) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error) {
	out := make(map[uuid.UUID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	err := r.store.db.WithContext(ctx).
		Select("id", "first_name", "last_name").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	for i := range users {
		out[users[i].ID] = users[i].Summary()
	}
	return out, nil
}

func (r *gormUserRepository) Save(ctx context.Context, user *models.User) error {
	return r.store.save(ctx, user)
}

type gormAppointmentRepository struct {
	store gormStore[models.Appointment]
}

func (r *gormAppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.store.create(ctx, appt)
}

func (r *gormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return r.store.first(ctx, "id = ?", id)
}

func (r *gormAppointmentRepository) List(ctx context.Context, q filters.Query) ([]models.Appointment, error) {
	return r.store.list(ctx, q)
}

func (r *gormAppointmentRepository) Save(ctx context.Context, appt *models.Appointment) error {
	return r.store.save(ctx, appt)
}

func (r *gormAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

type gormDoctorProfileRepository struct {
	store gormStore[models.DoctorProfile]
}

func (r *gormDoctorProfileRepository) Create(ctx context.Context, profile *models.DoctorProfile) error {
	return r.store.create(ctx, profile)
}

func (r *gormDoctorProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DoctorProfile, error) {
	return r.store.first(ctx, "id = ?", id)
}

func (r *gormDoctorProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DoctorProfile, error) {
	return r.store.first(ctx, "user_id = ?", userID)
}

func (r *gormDoctorProfileRepository) List(ctx context.Context, q filters.Query) ([]models.DoctorProfile, error) {
	return r.store.list(ctx, q)
}

func (r *gormDoctorProfileRepository) Save(ctx context.Context, profile *models.DoctorProfile) error {
	return r.store.save(ctx, profile)
}

func (r *gormDoctorProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

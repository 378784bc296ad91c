package services_test

import (
	"context"
	"time"

	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, q filters.Query) ([]models.Task, error) {
	args := m.Called(ctx, q)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByIDAndRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	args := m.Called(ctx, id, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error) {
	args := m.Called(ctx, ids)
	summaries, _ := args.Get(0).(map[uuid.UUID]*models.UserSummary)
	return summaries, args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

// frozenClock always reports the same instant.
func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

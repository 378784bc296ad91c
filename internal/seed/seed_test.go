package seed

import (
	"context"
	"testing"
	"time"

	"taskclinic/backend/internal/database"
	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"
	"taskclinic/backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeeder(t *testing.T) (*Seeder, *repositories.Repositories, *services.TokenManager) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	repos := repositories.NewGormRepositories(db)
	tokens := services.NewTokenManager("seed-test-secret", "taskclinic-test", time.Hour)
	return New(repos, tokens, bcrypt.MinCost), repos, tokens
}

func TestSeeder_DoctorsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	seeder, repos, _ := newSeeder(t)
	doctors := DemoDoctors("demo-password")

	created, err := seeder.Doctors(ctx, doctors)
	require.NoError(t, err)
	assert.Equal(t, len(doctors), created)

	created, err = seeder.Doctors(ctx, doctors)
	require.NoError(t, err)
	assert.Zero(t, created)

	profiles, err := repos.DoctorProfiles.List(ctx, filters.Query{})
	require.NoError(t, err)
	assert.Len(t, profiles, len(doctors))
	for _, p := range profiles {
		assert.True(t, p.AcceptingNewPatients)
		assert.Zero(t, p.Rating)
		assert.Len(t, p.AvailableSlots, 3)
	}
}

func TestSeeder_DoctorsRejectsPatientAccount(t *testing.T) {
	ctx := context.Background()
	seeder, _, _ := newSeeder(t)
	doctors := DemoDoctors("demo-password")[:1]

	patient := doctors[0].Account
	patient.Role = models.RolePatient
	_, err := seeder.Doctors(ctx, []Doctor{{Account: patient, Profile: doctors[0].Profile}})
	require.Error(t, err, "a patient gets no doctor profile")

	_, err = seeder.Doctors(ctx, doctors)
	assert.ErrorContains(t, err, "existing account has role patient")
}

func TestSeeder_Admin(t *testing.T) {
	ctx := context.Background()
	seeder, repos, tokens := newSeeder(t)

	admin, err := seeder.Admin(ctx, " Admin@Clinic.test ", "admin-password", "Site", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@clinic.test", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, err := seeder.Admin(ctx, "admin@clinic.test", "admin-password", "Site", "Admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	auth := services.NewAuthService(repos.Users, tokens, bcrypt.MinCost, nil)
	result, err := auth.Login(ctx, models.LoginInput{Email: "admin@clinic.test", Password: "admin-password"})
	require.NoError(t, err)
	caller, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.True(t, caller.IsAdmin())

	_, err = seeder.Admin(ctx, "admin@clinic.test", "short", "", "")
	assert.Error(t, err)
}

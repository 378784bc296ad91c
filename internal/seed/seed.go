// Package seed populates a store with demo doctors and an administrator.
// Accounts that already exist are left untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"
	"taskclinic/backend/internal/services"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Doctor struct {
	Account models.RegisterInput
	Profile models.DoctorProfileInput
}

var weekdaySlots = []models.AvailableSlot{
	{Day: models.Monday, StartTime: "09:00", EndTime: "12:00"},
	{Day: models.Wednesday, StartTime: "13:00", EndTime: "17:00"},
	{Day: models.Friday, StartTime: "09:00", EndTime: "12:00"},
}

// DemoDoctors returns the built-in doctor accounts, all sharing password.
func DemoDoctors(password string) []Doctor {
	doctor := func(email, first, last, specialization string, years int, fee float64, languages ...string) Doctor {
		return Doctor{
			Account: models.RegisterInput{Email: email, Password: password, FirstName: first, LastName: last, Role: models.RoleDoctor},
			Profile: models.DoctorProfileInput{
				Specialization:  specialization,
				Qualifications:  []string{"MD"},
				Experience:      years,
				AvailableSlots:  weekdaySlots,
				ConsultationFee: fee,
				About:           fmt.Sprintf("Dr. %s %s practises %s.", first, last, strings.ToLower(specialization)),
				Languages:       languages,
			},
		}
	}
	return []Doctor{
		doctor("amara.okafor@clinic.test", "Amara", "Okafor", "Cardiology", 12, 150, "English", "Igbo"),
		doctor("lucas.meyer@clinic.test", "Lucas", "Meyer", "Dermatology", 7, 120, "English", "German"),
		doctor("sofia.reyes@clinic.test", "Sofia", "Reyes", "Pediatrics", 9, 90, "English", "Spanish"),
	}
}

type Seeder struct {
	users      repositories.UserRepository
	profiles   repositories.DoctorProfileRepository
	auth       *services.AuthService
	doctors    *services.DoctorService
	bcryptCost int
	now        services.Clock
}

func New(repos *repositories.Repositories, tokens *services.TokenManager, bcryptCost int) *Seeder {
	return &Seeder{
		users:      repos.Users,
		profiles:   repos.DoctorProfiles,
		auth:       services.NewAuthService(repos.Users, tokens, bcryptCost, services.SystemClock),
		doctors:    services.NewDoctorService(repos.DoctorProfiles, repos.Users, services.SystemClock),
		bcryptCost: bcryptCost,
		now:        services.SystemClock,
	}
}

// Doctors registers each doctor and creates a profile for any that lack
// one. It returns the number of profiles created.
func (s *Seeder) Doctors(ctx context.Context, doctors []Doctor) (int, error) {
	created := 0
	for _, d := range doctors {
		result, err := s.auth.Register(ctx, d.Account)
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			result, err = s.auth.Login(ctx, models.LoginInput{Email: d.Account.Email, Password: d.Account.Password})
		}
		if err != nil {
			return created, fmt.Errorf("seed doctor %s: %w", d.Account.Email, err)
		}
		if result.User.Role != models.RoleDoctor {
			return created, fmt.Errorf("seed doctor %s: existing account has role %s", d.Account.Email, result.User.Role)
		}

		if _, err := s.profiles.FindByUserID(ctx, result.User.ID); err == nil {
			log.Printf("⚠️ Doctor %s already has a profile, skipping", d.Account.Email)
			continue
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return created, fmt.Errorf("seed doctor %s: %w", d.Account.Email, err)
		}

		if _, err := s.doctors.Create(ctx, result.User.Caller(), d.Profile); err != nil {
			return created, fmt.Errorf("seed profile %s: %w", d.Account.Email, err)
		}
		log.Printf("✅ Seeded doctor %s (%s)", d.Account.Email, d.Profile.Specialization)
		created++
	}
	return created, nil
}

// Admin creates an administrator account. Registration refuses the admin
// role, so the record is written directly.
func (s *Seeder) Admin(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, errors.New("admin email and a password of at least 6 characters are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return nil, fmt.Errorf("account %s exists with role %s", email, existing.Role)
		}
		log.Printf("⚠️ Admin %s already exists, skipping", email)
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := s.now()
	admin := &models.User{
		ID:        id,
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	log.Printf("✅ Seeded admin %s", email)
	return admin, nil
}

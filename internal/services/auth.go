package services

import (
	"context"
	"errors"
	"strings"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	userResource      = "user"
	minPasswordLength = 6
)

var validate = validator.New()

type AuthService struct {
	users      repositories.UserRepository
	tokens     *TokenManager
	bcryptCost int
	// dummyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison at the configured cost.
	dummyHash []byte
	now       Clock
}

func NewAuthService(users repositories.UserRepository, tokens *TokenManager, bcryptCost int, clock Clock) *AuthService {
	if clock == nil {
		clock = SystemClock
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("taskclinic-dummy-password"), bcryptCost)
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, dummyHash: dummyHash, now: clock}
}

func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	var problems []string
	if len(input.Password) < minPasswordLength {
		problems = append(problems, "password must be at least 6 characters")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" {
		problems = append(problems, "firstName is required")
	}
	if lastName == "" {
		problems = append(problems, "lastName is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.Validation("invalid registration", problems...)
	}

	role := input.Role
	switch role {
	case "":
		role = models.RolePatient
	case models.RoleAdmin:
		return nil, apperrors.Validation("admin accounts cannot be self-registered")
	}
	if !role.Valid() {
		_, err := models.ParseRole(string(role))
		return nil, apperrors.Validation(err.Error())
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal("lookup email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, apperrors.Internal("generate user id", err)
	}
	now := s.now()
	user := &models.User{
		ID:        id,
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Internal("create user", err)
	}
	return s.issue(user)
}

// Login fails with the same error for an unknown email and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*models.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Internal("lookup email", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, caller models.Caller) (*models.User, error) {
	user, err := s.users.FindByID(ctx, caller.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Authentication("user_not_found", "user no longer exists")
	}
	if err != nil {
		return nil, apperrors.Internal("load current user", err)
	}
	return user, nil
}

// UpdateProfile edits the caller's names. Email and role stay fixed.
func (s *AuthService) UpdateProfile(ctx context.Context, caller models.Caller, patch models.ProfilePatch) (*models.User, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		name := strings.TrimSpace(*patch.FirstName)
		if name == "" {
			return nil, apperrors.Validation("firstName cannot be empty")
		}
		user.FirstName = name
	}
	if patch.LastName != nil {
		name := strings.TrimSpace(*patch.LastName)
		if name == "" {
			return nil, apperrors.Validation("lastName cannot be empty")
		}
		user.LastName = name
	}
	user.UpdatedAt = nextUpdate(s.now(), user.UpdatedAt)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, storeError("update user", userResource, err)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("issue token", err)
	}
	return &models.AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.Validation("email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return "", apperrors.Validation("email is invalid")
	}
	return email, nil
}

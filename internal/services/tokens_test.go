package services

import (
	"testing"
	"time"

	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testUser() *models.User {
	return &models.User{ID: uuid.Must(uuid.NewV4()), Role: models.RoleDoctor}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "issuer", time.Hour)
	user := testUser()

	token, err := m.Issue(user)
	require.NoError(t, err)

	caller, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.Caller{ID: user.ID, Role: models.RoleDoctor}, caller)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", "issuer", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.Equal(t, ErrTokenExpired, err)
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	m := NewTokenManager("secret", "issuer", time.Hour)
	user := testUser()

	other := NewTokenManager("other-secret", "issuer", time.Hour)
	token, err := other.Issue(user)
	require.NoError(t, err)
	_, err = m.Verify(token)
	assert.Equal(t, ErrTokenInvalid, err, "wrong signature")

	wrongIssuer := NewTokenManager("secret", "someone-else", time.Hour)
	token, err = wrongIssuer.Issue(user)
	require.NoError(t, err)
	_, err = m.Verify(token)
	assert.Equal(t, ErrTokenInvalid, err, "wrong issuer")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           user.ID.String(),
		Role:             user.Role,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "issuer", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(unsigned)
	assert.Equal(t, ErrTokenInvalid, err, "alg none")

	_, err = m.Verify("garbage")
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	m := NewTokenManager("secret", "issuer", time.Hour)
	token, err := m.Issue(&models.User{ID: uuid.Must(uuid.NewV4()), Role: "superuser"})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestNextUpdate(t *testing.T) {
	prev := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, prev.Add(time.Millisecond), nextUpdate(prev, prev))
	assert.Equal(t, prev.Add(time.Millisecond), nextUpdate(prev.Add(-time.Second), prev))
	assert.Equal(t, prev.Add(time.Hour), nextUpdate(prev.Add(time.Hour), prev))
}

func TestGuards(t *testing.T) {
	owner := models.Caller{ID: uuid.Must(uuid.NewV4()), Role: models.RolePatient}
	doctor := models.Caller{ID: uuid.Must(uuid.NewV4()), Role: models.RoleDoctor}
	admin := models.Caller{ID: uuid.Must(uuid.NewV4()), Role: models.RoleAdmin}
	stranger := models.Caller{ID: uuid.Must(uuid.NewV4()), Role: models.RolePatient}

	task := &models.Task{UserID: owner.ID}
	assert.True(t, CanAccessTask(task, owner))
	assert.False(t, CanAccessTask(task, admin), "tasks have no admin override")

	appt := &models.Appointment{PatientID: owner.ID, DoctorID: doctor.ID}
	assert.True(t, CanAccessAppointment(appt, owner))
	assert.True(t, CanAccessAppointment(appt, doctor))
	assert.True(t, CanAccessAppointment(appt, admin))
	assert.False(t, CanAccessAppointment(appt, stranger))

	profile := &models.DoctorProfile{UserID: doctor.ID}
	assert.True(t, CanAccessDoctorProfile(profile, doctor))
	assert.True(t, CanAccessDoctorProfile(profile, admin))
	assert.False(t, CanAccessDoctorProfile(profile, owner))
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, averageRating(nil))
	assert.Equal(t, 4.7, averageRating([]models.Review{{Rating: 5}, {Rating: 5}, {Rating: 4}}))
	assert.Equal(t, 3.0, averageRating([]models.Review{{Rating: 3}}))
}

func TestNewAuthService_DummyHashFollowsConfiguredCost(t *testing.T) {
	tokens := NewTokenManager("test-secret", "taskclinic-test", time.Hour)

	for _, tc := range []struct {
		configured int
		want       int
	}{
		{bcrypt.MinCost, bcrypt.MinCost},
		{bcrypt.MinCost + 1, bcrypt.MinCost + 1},
		{0, bcrypt.DefaultCost},
	} {
		svc := NewAuthService(nil, tokens, tc.configured, SystemClock)
		cost, err := bcrypt.Cost(svc.dummyHash)
		require.NoError(t, err)
		assert.Equal(t, tc.want, cost)
		assert.Equal(t, svc.bcryptCost, cost)
	}
}

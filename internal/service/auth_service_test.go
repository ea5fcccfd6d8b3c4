package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/config"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

func newTestAuthService(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(config.SessionConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		AdminPasswordHash: string(hash),
		AdminUser:         "admin",
	}, nil, zap.NewNop())
}

func TestLoginIssuesValidSession(t *testing.T) {
	svc := newTestAuthService(t, "tvtec123")

	resp, err := svc.Login(models.LoginRequest{Password: "tvtec123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	session, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.User)
	assert.False(t, session.IssuedAt.IsZero())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, "tvtec123")

	_, err := svc.Login(models.LoginRequest{Password: "wrong"})

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginRequiresConfiguredHash(t *testing.T) {
	svc := NewAuthService(config.SessionConfig{Secret: "s", Expiration: time.Hour, AdminUser: "admin"}, nil, zap.NewNop())

	_, err := svc.Login(models.LoginRequest{Password: "anything"})

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	svc := newTestAuthService(t, "tvtec123")

	_, err := svc.Login(models.LoginRequest{})

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newTestAuthService(t, "tvtec123")
	other := NewAuthService(config.SessionConfig{
		Secret:     "another-secret",
		Expiration: time.Hour,
		AdminUser:  "admin",
	}, nil, zap.NewNop())

	resp, err := svc.Login(models.LoginRequest{Password: "tvtec123"})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.Token)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)

	_, err = svc.ValidateToken("not-a-token")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsExpiredSession(t *testing.T) {
	svc := newTestAuthService(t, "tvtec123")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(models.LoginRequest{Password: "tvtec123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

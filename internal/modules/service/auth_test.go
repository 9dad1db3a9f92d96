package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/pkg/utils/secrets"
	"github.com/arabshield/portal/internal/pkg/utils/tokens"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthFixtures(t *testing.T) (*MockUserRepo, *MockSessionRepo, *MockSettingsRepo, *MockBus, *config.Config, AuthService) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := &MockUserRepo{}
	sessions := &MockSessionRepo{}
	settings := &MockSettingsRepo{}
	bus := &MockBus{}
	cfg := &config.Config{}
	cfg.Auth.SecretPepper = "test-pepper"
	cfg.Auth.SessionTokenPrefix = "as_sess_"
	cfg.Auth.SessionTTLHours = 24
	cfg.Auth.VerifyTTLMinutes = 60

	svc := NewAuthService(users, sessions, settings, rdb, nil, bus, cfg, zap.NewNop())
	return users, sessions, settings, bus, cfg, svc
}

func TestAuthService_Register_ClosedRegistrations(t *testing.T) {
	users, _, settings, _, _, svc := newAuthFixtures(t)

	settings.On("Get", mock.Anything).Return(&model.SystemSettings{AllowNewRegistrations: false}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "a@example.com",
		DisplayName: "A",
		Password:    "longenough",
	})
	assert.ErrorIs(t, err, ErrRegistrationsClosed)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	users, _, settings, _, _, svc := newAuthFixtures(t)

	settings.On("Get", mock.Anything).Return(&model.SystemSettings{AllowNewRegistrations: true}, nil)
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: uuid.New()}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "a@example.com",
		DisplayName: "A",
		Password:    "longenough",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_AppliesDefaultRole(t *testing.T) {
	users, _, settings, bus, _, svc := newAuthFixtures(t)

	// A bad configured default falls back to the client role.
	settings.On("Get", mock.Anything).Return(&model.SystemSettings{
		AllowNewRegistrations: true,
		DefaultUserRole:       "vip",
	}, nil)
	users.On("GetByEmail", mock.Anything, "b@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleClient && u.PasswordPHC != "" && !u.Verified
	})).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:       "b@example.com",
		DisplayName: "B",
		Password:    "longenough",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleClient, u.Role)
	users.AssertExpectations(t)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	users, _, settings, _, _, svc := newAuthFixtures(t)

	settings.On("Get", mock.Anything).Return(&model.SystemSettings{AllowNewRegistrations: true}, nil)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "c@example.com",
		DisplayName: "C",
		Password:    "short",
	})
	assert.ErrorIs(t, err, secrets.ErrWeakPassword)
}

func TestAuthService_Login(t *testing.T) {
	users, sessions, _, _, cfg, svc := newAuthFixtures(t)

	phc, err := secrets.HashPassword("correct horse", cfg.Auth.SecretPepper)
	require.NoError(t, err)
	account := &model.User{ID: uuid.New(), Email: "d@example.com", PasswordPHC: phc}

	users.On("GetByEmail", mock.Anything, "d@example.com").Return(account, nil)
	sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *model.AccountSession) bool {
		return s.UserID == account.ID && len(s.TokenHMAC) == 64 && s.ExpiresAt.After(time.Now())
	})).Return(nil)

	out, err := svc.Login(context.Background(), LoginInput{Email: "d@example.com", Password: "correct horse"})
	assert.NoError(t, err)
	assert.Contains(t, out.Token, cfg.Auth.SessionTokenPrefix)
	// The blank stored role reads back as the default role.
	assert.Equal(t, model.RoleClient, out.User.Role)
	sessions.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	users, _, _, _, cfg, svc := newAuthFixtures(t)

	phc, err := secrets.HashPassword("correct horse", cfg.Auth.SecretPepper)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "unknown@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("GetByEmail", mock.Anything, "d@example.com").Return(&model.User{PasswordPHC: phc}, nil)

	_, err = svc.Login(context.Background(), LoginInput{Email: "unknown@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "d@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ResolveSession(t *testing.T) {
	_, sessions, _, _, cfg, svc := newAuthFixtures(t)

	secret, err := tokens.NewSecret()
	require.NoError(t, err)
	lookup := tokens.HMAC256Hex(cfg.Auth.SecretPepper, secret)

	account := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	sessions.On("GetByTokenHMAC", mock.Anything, lookup).Return(&model.AccountSession{
		ID:        uuid.New(),
		UserID:    account.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      account,
	}, nil)

	u, sess, err := svc.ResolveSession(context.Background(), cfg.Auth.SessionTokenPrefix+secret)
	assert.NoError(t, err)
	assert.Equal(t, account.ID, u.ID)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, account.ID, sess.UserID)
}

func TestAuthService_ResolveSession_Rejections(t *testing.T) {
	_, sessions, _, _, cfg, svc := newAuthFixtures(t)

	expired := tokens.HMAC256Hex(cfg.Auth.SecretPepper, "expired-secret")
	revoked := tokens.HMAC256Hex(cfg.Auth.SecretPepper, "revoked-secret")
	now := time.Now()

	sessions.On("GetByTokenHMAC", mock.Anything, expired).Return(&model.AccountSession{
		ExpiresAt: now.Add(-time.Minute),
	}, nil)
	sessions.On("GetByTokenHMAC", mock.Anything, revoked).Return(&model.AccountSession{
		ExpiresAt: now.Add(time.Hour),
		RevokedAt: &now,
	}, nil)
	sessions.On("GetByTokenHMAC", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong prefix", token: "bearer_xyz"},
		{name: "unknown secret", token: cfg.Auth.SessionTokenPrefix + "nonexistent"},
		{name: "expired session", token: cfg.Auth.SessionTokenPrefix + "expired-secret"},
		{name: "revoked session", token: cfg.Auth.SessionTokenPrefix + "revoked-secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.ResolveSession(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrSessionExpired)
		})
	}
}

func TestAuthService_ResolveSession_StorageErrorIsNotExpiry(t *testing.T) {
	_, sessions, _, _, cfg, svc := newAuthFixtures(t)

	boom := errors.New("connection refused")
	sessions.On("GetByTokenHMAC", mock.Anything, mock.Anything).Return(nil, boom)

	_, _, err := svc.ResolveSession(context.Background(), cfg.Auth.SessionTokenPrefix+"whatever")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_ResolveSession_MissingProfileFallsBackToDefaultRole(t *testing.T) {
	_, sessions, _, _, cfg, svc := newAuthFixtures(t)

	secret := "orphaned-secret"
	lookup := tokens.HMAC256Hex(cfg.Auth.SecretPepper, secret)
	userID := uuid.New()
	sessions.On("GetByTokenHMAC", mock.Anything, lookup).Return(&model.AccountSession{
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	u, _, err := svc.ResolveSession(context.Background(), cfg.Auth.SessionTokenPrefix+secret)
	assert.NoError(t, err)
	assert.Equal(t, userID, u.ID)
	assert.Equal(t, model.RoleClient, u.Role)
}

func TestAuthService_Verify_UnknownToken(t *testing.T) {
	_, _, _, _, _, svc := newAuthFixtures(t)

	err := svc.Verify(context.Background(), "bogus-token")
	assert.ErrorIs(t, err, ErrVerificationInvalid)
}

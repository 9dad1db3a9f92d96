package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arabshield/portal/internal/config"
	mq "github.com/arabshield/portal/internal/infra/queue"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/pkg/utils/secrets"
	"github.com/arabshield/portal/internal/pkg/utils/tokens"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const verifyKeyPrefix = "portal:verify:"

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginOutput, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// ResolveSession authenticates a raw bearer token and returns the
	// principal with its role already normalized. A missing or unknown
	// role value resolves to the default role; a lookup error does not.
	ResolveSession(ctx context.Context, rawToken string) (*model.User, *model.AccountSession, error)
	Verify(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	users    repo.UserRepo
	sessions repo.AccountSessionRepo
	settings repo.SettingsRepo
	rdb      *redis.Client
	pub      *mq.Publisher
	bus      realtime.Bus
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthService(
	users repo.UserRepo,
	sessions repo.AccountSessionRepo,
	settings repo.SettingsRepo,
	rdb *redis.Client,
	pub *mq.Publisher,
	bus realtime.Bus,
	cfg *config.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		settings: settings,
		rdb:      rdb,
		pub:      pub,
		bus:      bus,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// MailJobMQ is the payload published for outbound mail workers.
type MailJobMQ struct {
	Kind        string `json:"kind"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body,omitempty"`
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	sysCfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}
	if !sysCfg.AllowNewRegistrations {
		return nil, ErrRegistrationsClosed
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	phc, err := secrets.HashPassword(in.Password, s.cfg.Auth.SecretPepper)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:       in.Email,
		DisplayName: in.DisplayName,
		PasswordPHC: phc,
		Role:        roles.Normalize(sysCfg.DefaultUserRole),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.issueVerification(ctx, u); err != nil {
		// Account creation stands; the token can be re-requested.
		s.log.Warn("failed to issue verification token", zap.Error(err), zap.String("user_id", u.ID.String()))
	}

	if err := s.bus.Publish(ctx, realtime.Event{Entity: realtime.EntityUsers, ScopeKey: realtime.AdminScope}); err != nil {
		s.log.Warn("failed to publish users change event", zap.Error(err))
	}

	return u, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	pass, err := secrets.VerifyPassword(in.Password, s.cfg.Auth.SecretPepper, u.PasswordPHC)
	if err != nil || !pass {
		return nil, ErrInvalidCredentials
	}

	secret, err := tokens.NewSecret()
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(s.cfg.Auth.SessionTTLHours) * time.Hour
	sess := &model.AccountSession{
		UserID:    u.ID,
		TokenHMAC: tokens.HMAC256Hex(s.cfg.Auth.SecretPepper, secret),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	u.Role = roles.Normalize(u.Role)
	return &LoginOutput{
		Token:     s.cfg.Auth.SessionTokenPrefix + secret,
		ExpiresAt: sess.ExpiresAt,
		User:      u,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Revoke(ctx, sessionID)
}

func (s *authService) ResolveSession(ctx context.Context, rawToken string) (*model.User, *model.AccountSession, error) {
	secret, ok := tokens.ParseToken(rawToken, s.cfg.Auth.SessionTokenPrefix)
	if !ok {
		return nil, nil, ErrSessionExpired
	}

	lookup := tokens.HMAC256Hex(s.cfg.Auth.SecretPepper, secret)
	sess, err := s.sessions.GetByTokenHMAC(ctx, lookup)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, err
	}
	if !sess.Active(time.Now()) {
		return nil, nil, ErrSessionExpired
	}
	if sess.User == nil {
		// Profile row gone while the session lives: the principal still
		// authenticates but holds only the default role.
		u := &model.User{ID: sess.UserID, Role: roles.Default()}
		return u, sess, nil
	}

	sess.User.Role = roles.Normalize(sess.User.Role)
	return sess.User, sess, nil
}

func (s *authService) Verify(ctx context.Context, token string) error {
	key := verifyKeyPrefix + tokens.HMAC256Hex(s.cfg.Auth.SecretPepper, token)
	raw, err := s.rdb.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrVerificationInvalid
		}
		return err
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return ErrVerificationInvalid
	}
	return s.users.MarkVerified(ctx, userID)
}

func (s *authService) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if u.Verified {
		return nil
	}
	return s.issueVerification(ctx, u)
}

func (s *authService) issueVerification(ctx context.Context, u *model.User) error {
	token, err := tokens.NewSecret()
	if err != nil {
		return err
	}

	ttl := time.Duration(s.cfg.Auth.VerifyTTLMinutes) * time.Minute
	key := verifyKeyPrefix + tokens.HMAC256Hex(s.cfg.Auth.SecretPepper, token)
	if err := s.rdb.Set(ctx, key, u.ID.String(), ttl).Err(); err != nil {
		return err
	}

	if s.pub == nil {
		return nil
	}
	return s.pub.PublishJSON(ctx,
		s.cfg.RabbitMQ.ExchangeName.Mail,
		s.cfg.RabbitMQ.RoutingKey.MailVerification,
		MailJobMQ{
			Kind:        "verification",
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Token:       token,
		},
	)
}

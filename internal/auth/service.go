package auth

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revloop/revloop/internal/clock"
	"github.com/revloop/revloop/internal/config"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *userdomain.User `json:"user"`
}

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate resolves a bearer token to its user, rejecting
	// expired sessions.
	Authenticate(ctx context.Context, token string) (*userdomain.User, error)
	Logout(ctx context.Context, token string) error
	// DeleteExpired reaps sessions past their expiry. Called by the
	// daily sweep.
	DeleteExpired(ctx context.Context) (int64, error)
}

type Params struct {
	fx.In
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Cfg   config.Config
	Users userdomain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	ttl   time.Duration
	users userdomain.Repository
}

func New(p Params) Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		genID: p.GenID,
		clock: p.Clock,
		ttl:   time.Duration(p.Cfg.SessionTTLHours) * time.Hour,
		users: p.Users,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, s.db, email)
	if errors.Is(err, userdomain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	session := Session{
		ID:        s.genID.Generate(),
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	var session Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.clock.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return s.users.FindByID(ctx, s.db, session.CompanyID, session.UserID)
}

func (s *service) Logout(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&Session{}).Error
}

func (s *service) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", s.clock.Now()).
		Delete(&Session{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("reaped expired sessions", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

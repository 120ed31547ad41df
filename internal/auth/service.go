package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/telemetry/metrics"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
	"github.com/2beens/blogpress/internal/users"
	"github.com/2beens/blogpress/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type userStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type Service struct {
	users          userStore
	tokens         *Tokens
	revoker        tokenRevoker
	passwordCost   int
	metricsManager *metrics.Manager
	Now            func() time.Time
}

func NewService(
	users userStore,
	tokens *Tokens,
	revoker tokenRevoker,
	passwordCost int,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		users:          users,
		tokens:         tokens,
		revoker:        revoker,
		passwordCost:   passwordCost,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (_ *Session, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.register")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	hash, err := pkg.HashPassword(input.Password, s.passwordCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	now := s.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         model.RoleAuthor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return nil, apperr.Conflict("User already exists", err)
		}
		return nil, apperr.Internal("create user", err)
	}

	log.Debugf("user registered: %s", user.ID)
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (_ *Session, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.login")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.metricsManager.CounterLogins.WithLabelValues("failure").Inc()
			return nil, apperr.Unauthenticated("Invalid credentials")
		}
		return nil, apperr.Internal("get user by email", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		s.metricsManager.CounterLogins.WithLabelValues("failure").Inc()
		return nil, apperr.Unauthenticated("Invalid credentials")
	}

	s.metricsManager.CounterLogins.WithLabelValues("success").Inc()
	return s.session(user)
}

func (s *Service) Me(ctx context.Context, caller *model.Identity) (*model.User, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated("Not authorized")
	}
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("get user", err)
	}
	return user, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return apperr.Unauthenticated("Not authorized")
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return apperr.Internal("revoke token", err)
	}
	return nil
}

func (s *Service) session(user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Internal("issue token", fmt.Errorf("user %s: %w", user.ID, err))
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

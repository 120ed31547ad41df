package users

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/policy"
	"github.com/2beens/blogpress/internal/query"
)

type userRepo interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, q query.UserQuery) ([]*model.User, int, error)
	UpdateRole(ctx context.Context, id string, role model.Role, updatedAt time.Time) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// identityCache is told about users whose role or existence changed.
type identityCache interface {
	Forget(id string)
}

var (
	_ userRepo = (*Repo)(nil)
	_ userRepo = (*RepoMock)(nil)
)

// Service holds the admin operations on user accounts.
type Service struct {
	repo       userRepo
	identities identityCache
	Now        func() time.Time
}

func NewService(repo userRepo, identities identityCache) *Service {
	return &Service{
		repo:       repo,
		identities: identities,
		Now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, caller *model.Identity, role model.Role, page query.Page) ([]*model.User, int, error) {
	if !policy.AdminOnly.Permits(caller) {
		return nil, 0, apperr.Forbidden("Not authorized to access this route")
	}
	if role != "" && !role.Valid() {
		return nil, 0, apperr.Validation("Invalid role", apperr.FieldError{Field: "role", Message: "must be one of: author, admin"})
	}

	users, total, err := s.repo.List(ctx, query.UserQuery{Role: role, Page: page})
	if err != nil {
		return nil, 0, apperr.Internal("list users", err)
	}
	return users, total, nil
}

func (s *Service) UpdateRole(ctx context.Context, caller *model.Identity, id string, role model.Role) (*model.User, error) {
	if !policy.AdminOnly.Permits(caller) {
		return nil, apperr.Forbidden("Not authorized to access this route")
	}
	if !policy.CanSetRole(role) {
		return nil, apperr.Validation("Invalid role", apperr.FieldError{Field: "role", Message: "must be one of: author, admin"})
	}

	user, err := s.repo.UpdateRole(ctx, id, role, s.Now())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("update user role", err)
	}

	s.identities.Forget(id)
	log.Infof("user %s role set to %s by %s", id, role, caller.ID)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, caller *model.Identity, id string) error {
	if !policy.AdminOnly.Permits(caller) {
		return apperr.Forbidden("Not authorized to access this route")
	}
	if !policy.CanDeleteUser(caller, id) {
		return apperr.Validation("Cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("delete user", err)
	}

	s.identities.Forget(id)
	log.Infof("user %s deleted by %s", id, caller.ID)
	return nil
}

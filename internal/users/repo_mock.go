package users

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

// RepoMock is an in-memory user store evaluating the same queries as Repo.
type RepoMock struct {
	Users map[string]*model.User
	mutex sync.Mutex
}

func NewRepoMock(users ...*model.User) *RepoMock {
	m := &RepoMock{
		Users: make(map[string]*model.User),
	}
	for _, u := range users {
		m.Users[u.ID] = u
	}
	return m
}

func (r *RepoMock) Create(_ context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	cp := *user
	r.Users[user.ID] = &cp
	return nil
}

func (r *RepoMock) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	u, ok := r.Users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *RepoMock) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *RepoMock) List(_ context.Context, q query.UserQuery) ([]*model.User, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var matched []*model.User
	for _, u := range r.Users {
		if q.Matches(u) {
			cp := *u
			matched = append(matched, &cp)
		}
	}
	slices.SortFunc(matched, func(a, b *model.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return query.Slice(matched, q.Page), len(matched), nil
}

func (r *RepoMock) UpdateRole(_ context.Context, id string, role model.Role, updatedAt time.Time) (*model.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	u, ok := r.Users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = updatedAt
	cp := *u
	return &cp, nil
}

func (r *RepoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.Users, id)
	return nil
}

func (r *RepoMock) AuthorRefs(_ context.Context, ids []string) (map[string]*model.AuthorRef, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	refs := make(map[string]*model.AuthorRef, len(ids))
	for _, id := range ids {
		if u, ok := r.Users[id]; ok {
			refs[id] = u.AuthorRef()
		}
	}
	return refs, nil
}

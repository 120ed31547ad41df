package blog

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

// RepoMock keeps posts in memory and filters them with the same query values
// the SQL repo renders.
type RepoMock struct {
	Posts map[string]*model.Post
	mutex sync.Mutex
}

func NewRepoMock(posts ...*model.Post) *RepoMock {
	m := &RepoMock{
		Posts: make(map[string]*model.Post),
	}
	for _, p := range posts {
		m.Posts[p.ID] = p
	}
	return m
}

func (r *RepoMock) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *RepoMock) Create(_ context.Context, post *model.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.slugTaken(post.Slug, post.ID) {
		return ErrSlugTaken
	}
	r.Posts[post.ID] = clonePost(post)
	return nil
}

func (r *RepoMock) Get(_ context.Context, id string) (*model.Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *RepoMock) IncrementViews(_ context.Context, id string) (*model.Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	p.Views++
	return clonePost(p), nil
}

func (r *RepoMock) Update(_ context.Context, post *model.Post) (*model.Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.Posts[post.ID]
	if !ok {
		return nil, ErrPostNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return nil, ErrSlugTaken
	}

	updated := clonePost(post)
	updated.Views = stored.Views
	if stored.PublishedAt != nil {
		updated.PublishedAt = stored.PublishedAt
	}
	r.Posts[post.ID] = updated
	return clonePost(updated), nil
}

func (r *RepoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.Posts, id)
	return nil
}

func (r *RepoMock) List(_ context.Context, q query.PostQuery) ([]*model.Post, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var matched []*model.Post
	for _, p := range r.Posts {
		if q.Matches(p) {
			matched = append(matched, clonePost(p))
		}
	}
	slices.SortFunc(matched, func(a, b *model.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return query.Slice(matched, q.Page), len(matched), nil
}

func (r *RepoMock) slugTaken(slug, exceptID string) bool {
	for id, p := range r.Posts {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

func clonePost(p *model.Post) *model.Post {
	cp := *p
	cp.Categories = slices.Clone(p.Categories)
	cp.Tags = slices.Clone(p.Tags)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	cp.Author = nil
	return &cp
}

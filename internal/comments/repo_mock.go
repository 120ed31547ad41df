package comments

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

type RepoMock struct {
	Comments map[string]*model.Comment
	mutex    sync.Mutex
}

func NewRepoMock(comments ...*model.Comment) *RepoMock {
	m := &RepoMock{
		Comments: make(map[string]*model.Comment),
	}
	for _, c := range comments {
		m.Comments[c.ID] = c
	}
	return m
}

func (r *RepoMock) CommentsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Comments)
}

func (r *RepoMock) Create(_ context.Context, comment *model.Comment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.Comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *RepoMock) Get(_ context.Context, id string) (*model.Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, ok := r.Comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return cloneComment(c), nil
}

func (r *RepoMock) Update(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.Comments[comment.ID]
	if !ok {
		return nil, ErrCommentNotFound
	}
	stored.Content = comment.Content
	stored.UpdatedAt = comment.UpdatedAt
	return cloneComment(stored), nil
}

func (r *RepoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Comments[id]; !ok {
		return ErrCommentNotFound
	}
	delete(r.Comments, id)
	return nil
}

func (r *RepoMock) List(_ context.Context, q query.CommentQuery) ([]*model.Comment, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var matched []*model.Comment
	for _, c := range r.Comments {
		if q.Matches(c) {
			matched = append(matched, cloneComment(c))
		}
	}
	slices.SortFunc(matched, func(a, b *model.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return query.Slice(matched, q.Page), len(matched), nil
}

func cloneComment(c *model.Comment) *model.Comment {
	cp := *c
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		cp.ParentCommentID = &parent
	}
	cp.Author = nil
	return &cp
}

package admin

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/2beens/blogpress/internal/blog"
	"github.com/2beens/blogpress/internal/comments"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/internal/users"
)

var everything = query.Page{Page: 1, Limit: math.MaxInt32}

// StatsRepoMock aggregates over the in-memory repos of the other packages.
type StatsRepoMock struct {
	Users    *users.RepoMock
	Posts    *blog.RepoMock
	Comments *comments.RepoMock
}

func (r *StatsRepoMock) Counts(ctx context.Context) (*model.DashboardCounts, error) {
	_, totalUsers, err := r.Users.List(ctx, query.UserQuery{Page: everything})
	if err != nil {
		return nil, err
	}
	posts, _, err := r.Posts.List(ctx, query.PostQuery{Page: everything})
	if err != nil {
		return nil, err
	}
	all, _, err := r.Comments.List(ctx, query.CommentQuery{Page: everything})
	if err != nil {
		return nil, err
	}

	counts := &model.DashboardCounts{
		TotalUsers:    totalUsers,
		TotalPosts:    len(posts),
		TotalComments: len(all),
	}
	for _, p := range posts {
		if p.IsPublished() {
			counts.PublishedPosts++
		} else {
			counts.DraftPosts++
		}
	}
	for _, c := range all {
		if c.IsApproved {
			counts.ApprovedComments++
		} else {
			counts.PendingComments++
		}
	}
	return counts, nil
}

func (r *StatsRepoMock) TopAuthors(ctx context.Context, limit int) ([]model.TopAuthor, error) {
	posts, _, err := r.Posts.List(ctx, query.PostQuery{Page: everything})
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[string]*model.TopAuthor)
	for _, p := range posts {
		u, err := r.Users.GetByID(ctx, p.AuthorID)
		if err != nil {
			continue
		}
		a, ok := byAuthor[u.ID]
		if !ok {
			a = &model.TopAuthor{Author: model.TopAuthorRef{ID: u.ID, Name: u.Name, Email: u.Email}}
			byAuthor[u.ID] = a
		}
		a.PostCount++
		if p.IsPublished() {
			a.PublishedCount++
		}
	}

	top := make([]model.TopAuthor, 0, len(byAuthor))
	for _, a := range byAuthor {
		top = append(top, *a)
	}
	slices.SortFunc(top, func(a, b model.TopAuthor) int {
		if c := cmp.Compare(b.PostCount, a.PostCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Author.ID, b.Author.ID)
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

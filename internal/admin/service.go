package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/policy"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
)

const (
	topAuthorsLimit  = 5
	recentPostsLimit = 5
)

type statsRepo interface {
	Counts(ctx context.Context) (*model.DashboardCounts, error)
	TopAuthors(ctx context.Context, limit int) ([]model.TopAuthor, error)
}

type recentPostsLister interface {
	AdminList(ctx context.Context, caller *model.Identity, filter query.PostFilter, page query.Page) ([]*model.Post, int, error)
}

var (
	_ statsRepo = (*StatsRepo)(nil)
	_ statsRepo = (*StatsRepoMock)(nil)
)

type StatsService struct {
	repo  statsRepo
	posts recentPostsLister
}

func NewStatsService(repo statsRepo, posts recentPostsLister) *StatsService {
	return &StatsService{
		repo:  repo,
		posts: posts,
	}
}

// Dashboard gathers counts, the five most prolific authors and the five
// newest posts of any status.
func (s *StatsService) Dashboard(ctx context.Context, caller *model.Identity) (_ *model.DashboardStats, err error) {
	ctx, span := tracing.StartSpan(ctx, "statsService.dashboard")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if !policy.AdminOnly.Permits(caller) {
		return nil, apperr.Forbidden("Not authorized to access this route")
	}

	stats := &model.DashboardStats{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.repo.Counts(gCtx)
		if err != nil {
			return apperr.Internal("dashboard counts", err)
		}
		stats.Stats = *counts
		return nil
	})
	g.Go(func() error {
		top, err := s.repo.TopAuthors(gCtx, topAuthorsLimit)
		if err != nil {
			return apperr.Internal("dashboard top authors", err)
		}
		stats.TopAuthors = top
		return nil
	})
	g.Go(func() error {
		recent, _, err := s.posts.AdminList(gCtx, caller, query.PostFilter{}, query.Page{Page: 1, Limit: recentPostsLimit})
		if err != nil {
			return err
		}
		stats.RecentPosts = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.TopAuthors == nil {
		stats.TopAuthors = []model.TopAuthor{}
	}
	if stats.RecentPosts == nil {
		stats.RecentPosts = []*model.Post{}
	}
	return stats, nil
}

package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
)

type StatsRepo struct {
	db *pgxpool.Pool
}

func NewStatsRepo(db *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{
		db: db,
	}
}

func (r *StatsRepo) Counts(ctx context.Context) (*model.DashboardCounts, error) {
	ctx, span := tracing.StartSpan(ctx, "statsRepo.counts")
	defer span.End()

	counts := &model.DashboardCounts{}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM posts WHERE status = 'published'),
			(SELECT COUNT(*) FROM posts WHERE status = 'draft'),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM comments WHERE is_approved),
			(SELECT COUNT(*) FROM comments WHERE NOT is_approved)`,
	).Scan(
		&counts.TotalUsers, &counts.TotalPosts, &counts.PublishedPosts, &counts.DraftPosts,
		&counts.TotalComments, &counts.ApprovedComments, &counts.PendingComments,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return counts, nil
}

// TopAuthors groups posts by author. Posts of deleted users drop out through
// the inner join. Ties on post count go to the lower author id.
func (r *StatsRepo) TopAuthors(ctx context.Context, limit int) ([]model.TopAuthor, error) {
	ctx, span := tracing.StartSpan(ctx, "statsRepo.topAuthors")
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, COUNT(*) AS post_count,
			COUNT(*) FILTER (WHERE p.status = 'published') AS published_count
		FROM posts p
		JOIN users u ON u.id = p.author_id
		GROUP BY u.id, u.name, u.email
		ORDER BY post_count DESC, u.id ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}

	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TopAuthor, error) {
		var a model.TopAuthor
		err := row.Scan(&a.Author.ID, &a.Author.Name, &a.Author.Email, &a.PostCount, &a.PublishedCount)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan top authors: %w", err)
	}
	return authors, nil
}

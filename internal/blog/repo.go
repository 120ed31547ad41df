package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
	"github.com/2beens/blogpress/pkg"
)

// manual caching of statements not needed:
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("post slug taken")
)

const slugConstraint = "posts_slug_key"

const postColumns = `id, title, slug, content, excerpt, featured_image, status, author_id,
	categories, tags, views, published_at, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, post *model.Post) error {
	ctx, span := tracing.StartSpan(ctx, "blogRepo.create")
	defer span.End()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO posts (id, title, slug, content, excerpt, featured_image, status, author_id,
			categories, tags, views, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt, post.FeaturedImage,
		string(post.Status), post.AuthorID, nonNil(post.Categories), nonNil(post.Tags),
		post.Views, post.PublishedAt, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if pkg.ViolatedConstraint(err) == slugConstraint {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*model.Post, error) {
	ctx, span := tracing.StartSpan(ctx, "blogRepo.get")
	defer span.End()

	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
}

// IncrementViews adds exactly one view at the store and returns the updated
// row, so concurrent readers never lose an increment.
func (r *Repo) IncrementViews(ctx context.Context, id string) (*model.Post, error) {
	ctx, span := tracing.StartSpan(ctx, "blogRepo.incrementViews")
	defer span.End()

	return r.getOne(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING `+postColumns, id)
}

// Update writes every editable column. Views are never overwritten and an
// already set published_at is kept.
func (r *Repo) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	ctx, span := tracing.StartSpan(ctx, "blogRepo.update")
	defer span.End()

	updated, err := r.getOne(
		ctx,
		`UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5, status = $6,
			categories = $7, tags = $8, published_at = COALESCE(published_at, $9), updated_at = $10
		WHERE id = $11
		RETURNING `+postColumns,
		post.Title, post.Slug, post.Content, post.Excerpt, post.FeaturedImage, string(post.Status),
		nonNil(post.Categories), nonNil(post.Tags), post.PublishedAt, post.UpdatedAt, post.ID,
	)
	if err != nil {
		if pkg.ViolatedConstraint(err) == slugConstraint {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the post; its comments go with it through the foreign key.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "blogRepo.delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// List returns one page, newest first, and the total matched by the same
// WHERE clause. Count and page queries run concurrently.
func (r *Repo) List(ctx context.Context, q query.PostQuery) ([]*model.Post, int, error) {
	ctx, span := tracing.StartSpan(ctx, "blogRepo.list")
	defer span.End()

	where := q.Where()
	var (
		posts []*model.Post
		total int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRow(gCtx, `SELECT COUNT(*) FROM posts `+where.SQL(), where.Args()...).Scan(&total)
	})
	g.Go(func() error {
		sql := fmt.Sprintf(
			`SELECT %s FROM posts %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			postColumns, where.SQL(), where.NextArg(), where.NextArg()+1,
		)
		args := append(append([]any{}, where.Args()...), q.Page.Limit, q.Page.Skip())
		rows, err := r.db.Query(gCtx, sql, args...)
		if err != nil {
			return err
		}
		posts, err = pgx.CollectRows(rows, scanPost)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	return posts, total, nil
}

func (r *Repo) getOne(ctx context.Context, sql string, args ...any) (*model.Post, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query post: %w", err)
	}
	post, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return post, nil
}

func scanPost(row pgx.CollectableRow) (*model.Post, error) {
	var (
		p      model.Post
		status string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &status, &p.AuthorID,
		&p.Categories, &p.Tags, &p.Views, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.PostStatus(status)
	return &p, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

package comments

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

var (
	ErrCommentNotFound = errors.New("comment not found")
	// ErrPostGone is returned when the commented post was deleted in between.
	ErrPostGone = errors.New("commented post does not exist")
)

const commentColumns = `id, content, author_id, post_id, is_approved, parent_comment_id, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, comment *model.Comment) error {
	ctx, span := tracing.StartSpan(ctx, "commentsRepo.create")
	defer span.End()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO comments (id, content, author_id, post_id, is_approved, parent_comment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		comment.ID, comment.Content, comment.AuthorID, comment.PostID, comment.IsApproved,
		comment.ParentCommentID, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrPostGone
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*model.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "commentsRepo.get")
	defer span.End()

	return r.getOne(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
}

// Update only ever touches content; approval and the parent reference are
// fixed at creation.
func (r *Repo) Update(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "commentsRepo.update")
	defer span.End()

	return r.getOne(
		ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3 RETURNING `+commentColumns,
		comment.Content, comment.UpdatedAt, comment.ID,
	)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "commentsRepo.delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, q query.CommentQuery) ([]*model.Comment, int, error) {
	ctx, span := tracing.StartSpan(ctx, "commentsRepo.list")
	defer span.End()

	where := q.Where()
	var (
		comments []*model.Comment
		total    int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRow(gCtx, `SELECT COUNT(*) FROM comments `+where.SQL(), where.Args()...).Scan(&total)
	})
	g.Go(func() error {
		sql := fmt.Sprintf(
			`SELECT %s FROM comments %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			commentColumns, where.SQL(), where.NextArg(), where.NextArg()+1,
		)
		args := append(append([]any{}, where.Args()...), q.Page.Limit, q.Page.Skip())
		rows, err := r.db.Query(gCtx, sql, args...)
		if err != nil {
			return err
		}
		comments, err = pgx.CollectRows(rows, scanComment)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}

func (r *Repo) getOne(ctx context.Context, sql string, args ...any) (*model.Comment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query comment: %w", err)
	}
	comment, err := pgx.CollectExactlyOneRow(rows, scanComment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return comment, nil
}

func scanComment(row pgx.CollectableRow) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(
		&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.IsApproved,
		&c.ParentCommentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
	"github.com/2beens/blogpress/pkg"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const userColumns = `id, name, email, password_hash, role, bio, avatar, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, user *model.User) error {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.create")
	defer span.End()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, role, bio, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role),
		user.Bio, user.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.getByID")
	defer span.End()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.getByEmail")
	defer span.End()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *Repo) getOne(ctx context.Context, sql string, args ...any) (*model.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// List returns one page of users, newest first, and the total under the same
// filter. Both queries run concurrently.
func (r *Repo) List(ctx context.Context, q query.UserQuery) ([]*model.User, int, error) {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.list")
	defer span.End()

	where := q.Where()
	var (
		users []*model.User
		total int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRow(gCtx, `SELECT COUNT(*) FROM users `+where.SQL(), where.Args()...).Scan(&total)
	})
	g.Go(func() error {
		sql := fmt.Sprintf(
			`SELECT %s FROM users %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			userColumns, where.SQL(), where.NextArg(), where.NextArg()+1,
		)
		args := append(append([]any{}, where.Args()...), q.Page.Limit, q.Page.Skip())
		rows, err := r.db.Query(gCtx, sql, args...)
		if err != nil {
			return err
		}
		users, err = pgx.CollectRows(rows, scanUser)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *Repo) UpdateRole(ctx context.Context, id string, role model.Role, updatedAt time.Time) (*model.User, error) {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.updateRole")
	defer span.End()

	return r.getOne(
		ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3 RETURNING `+userColumns,
		string(role), updatedAt, id,
	)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AuthorRefs loads the public display fields of the given users. Ids with no
// matching user are absent from the result.
func (r *Repo) AuthorRefs(ctx context.Context, ids []string) (map[string]*model.AuthorRef, error) {
	ctx, span := tracing.StartSpan(ctx, "usersRepo.authorRefs")
	defer span.End()

	refs := make(map[string]*model.AuthorRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, name, avatar, bio FROM users WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("select authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ref := &model.AuthorRef{}
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Avatar, &ref.Bio); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}

	return refs, nil
}

func scanUser(row pgx.CollectableRow) (*model.User, error) {
	var (
		user model.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role,
		&user.Bio, &user.Avatar, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	return &user, nil
}

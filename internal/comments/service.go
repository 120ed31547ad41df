package comments

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/blog"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/policy"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/internal/security"
	"github.com/2beens/blogpress/internal/telemetry/metrics"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
)

const maxContentLength = 500

type commentRepo interface {
	Create(ctx context.Context, comment *model.Comment) error
	Get(ctx context.Context, id string) (*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q query.CommentQuery) ([]*model.Comment, int, error)
}

type postLookup interface {
	Get(ctx context.Context, id string) (*model.Post, error)
}

type authorDirectory interface {
	AuthorRefs(ctx context.Context, ids []string) (map[string]*model.AuthorRef, error)
}

var (
	_ commentRepo = (*Repo)(nil)
	_ commentRepo = (*RepoMock)(nil)
	_ postLookup  = (*blog.Repo)(nil)
)

type CommentInput struct {
	Content         string
	ParentCommentID *string
}

type Service struct {
	repo           commentRepo
	posts          postLookup
	authors        authorDirectory
	sanitizer      *security.Sanitizer
	metricsManager *metrics.Manager
	Now            func() time.Time
}

func NewService(
	repo commentRepo,
	posts postLookup,
	authors authorDirectory,
	sanitizer *security.Sanitizer,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		posts:          posts,
		authors:        authors,
		sanitizer:      sanitizer,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// ListForPost returns the approved comments of a post the caller may view.
func (s *Service) ListForPost(ctx context.Context, caller *model.Identity, postID string, page query.Page) (_ []*model.Comment, _ int, err error) {
	ctx, span := tracing.StartSpan(ctx, "commentsService.listForPost", "post.id", postID)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err := s.viewablePost(ctx, caller, postID); err != nil {
		return nil, 0, err
	}

	approved := true
	q := query.BuildCommentQuery(query.CommentFilter{PostID: postID, Approved: &approved}, page)
	return s.list(ctx, q)
}

// AdminList is the moderation listing; only the declared filters apply.
func (s *Service) AdminList(ctx context.Context, caller *model.Identity, filter query.CommentFilter, page query.Page) (_ []*model.Comment, _ int, err error) {
	ctx, span := tracing.StartSpan(ctx, "commentsService.adminList")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if !policy.AdminOnly.Permits(caller) {
		return nil, 0, apperr.Forbidden("Not authorized to access this route")
	}
	return s.list(ctx, query.BuildCommentQuery(filter, page))
}

func (s *Service) list(ctx context.Context, q query.CommentQuery) ([]*model.Comment, int, error) {
	comments, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal("list comments", err)
	}
	if err := s.populateAuthors(ctx, comments...); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Create adds an approved comment to a post the caller may view. The parent
// reference is stored as given and never resolved.
func (s *Service) Create(ctx context.Context, caller *model.Identity, postID string, input CommentInput) (_ *model.Comment, err error) {
	ctx, span := tracing.StartSpan(ctx, "commentsService.create", "post.id", postID)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if caller == nil {
		return nil, apperr.Unauthenticated("Not authorized")
	}
	if _, err := s.viewablePost(ctx, caller, postID); err != nil {
		return nil, err
	}

	content, err := s.cleanContent(input.Content)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	comment := &model.Comment{
		ID:              uuid.NewString(),
		Content:         content,
		AuthorID:        caller.ID,
		PostID:          postID,
		IsApproved:      true,
		ParentCommentID: input.ParentCommentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		if errors.Is(err, ErrPostGone) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal("create comment", err)
	}
	s.metricsManager.CounterCommentsCreated.Inc()
	log.Debugf("comment %s added to post %s by %s", comment.ID, postID, caller.ID)

	if err := s.populateAuthors(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) Update(ctx context.Context, caller *model.Identity, id, content string) (_ *model.Comment, err error) {
	ctx, span := tracing.StartSpan(ctx, "commentsService.update", "comment.id", id)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	comment, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(caller, comment) {
		return nil, apperr.Forbidden("Not authorized to update this comment")
	}

	comment.Content, err = s.cleanContent(content)
	if err != nil {
		return nil, err
	}
	comment.UpdatedAt = s.Now()

	updated, err := s.repo.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, apperr.Internal("update comment", err)
	}

	if err := s.populateAuthors(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, caller *model.Identity, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "commentsService.delete", "comment.id", id)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	comment, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(caller, comment) {
		return apperr.Forbidden("Not authorized to delete this comment")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return apperr.NotFound("Comment not found")
		}
		return apperr.Internal("delete comment", err)
	}
	return nil
}

func (s *Service) viewablePost(ctx context.Context, caller *model.Identity, postID string) (*model.Post, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal("get commented post", err)
	}
	if !policy.CanViewSinglePost(caller, post) {
		return nil, apperr.Forbidden("Not authorized to view this post")
	}
	return post, nil
}

func (s *Service) getExisting(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, apperr.Internal("get comment", err)
	}
	return comment, nil
}

// cleanContent strips all markup and enforces 1..500 characters on what is left.
func (s *Service) cleanContent(raw string) (string, error) {
	content := s.sanitizer.PlainText(raw)
	if n := utf8.RuneCountInString(content); n < 1 || n > maxContentLength {
		return "", apperr.Validation("Validation failed", apperr.FieldError{
			Field:   "content",
			Message: "must be between 1 and 500 characters",
		})
	}
	return content, nil
}

func (s *Service) populateAuthors(ctx context.Context, comments ...*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}

	refs, err := s.authors.AuthorRefs(ctx, ids)
	if err != nil {
		return apperr.Internal("load comment authors", err)
	}
	for _, c := range comments {
		c.Author = refs[c.AuthorID]
	}
	return nil
}

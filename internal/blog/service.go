package blog

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/policy"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/internal/security"
	"github.com/2beens/blogpress/internal/telemetry/metrics"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
)

type postRepo interface {
	Create(ctx context.Context, post *model.Post) error
	Get(ctx context.Context, id string) (*model.Post, error)
	IncrementViews(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q query.PostQuery) ([]*model.Post, int, error)
}

type authorDirectory interface {
	AuthorRefs(ctx context.Context, ids []string) (map[string]*model.AuthorRef, error)
}

var (
	_ postRepo = (*Repo)(nil)
	_ postRepo = (*RepoMock)(nil)
)

type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	FeaturedImage string
	Status        model.PostStatus
	Categories    []string
	Tags          []string
}

// PostPatch is a partial update; nil fields are left untouched.
type PostPatch struct {
	Title         *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	Status        *model.PostStatus
	Categories    *[]string
	Tags          *[]string
}

type Service struct {
	repo           postRepo
	authors        authorDirectory
	sanitizer      *security.Sanitizer
	metricsManager *metrics.Manager
	Now            func() time.Time
}

func NewService(
	repo postRepo,
	authors authorDirectory,
	sanitizer *security.Sanitizer,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		authors:        authors,
		sanitizer:      sanitizer,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// List is the public listing: anonymous callers and authors only ever see
// published posts whatever status they ask for.
func (s *Service) List(ctx context.Context, caller *model.Identity, filter query.PostFilter, page query.Page) ([]*model.Post, int, error) {
	q := query.BuildPostQuery(filter, policy.VisibilityFilter(caller), page)
	return s.list(ctx, q)
}

// MyPosts lists the caller's own posts, drafts included.
func (s *Service) MyPosts(ctx context.Context, caller *model.Identity, status model.PostStatus, page query.Page) ([]*model.Post, int, error) {
	if caller == nil {
		return nil, 0, apperr.Unauthenticated("Not authorized")
	}
	q := query.BuildPostQuery(
		query.PostFilter{AuthorID: caller.ID, Status: status},
		policy.MandatoryFilter{},
		page,
	)
	return s.list(ctx, q)
}

func (s *Service) AdminList(ctx context.Context, caller *model.Identity, filter query.PostFilter, page query.Page) ([]*model.Post, int, error) {
	if !policy.AdminOnly.Permits(caller) {
		return nil, 0, apperr.Forbidden("Not authorized to access this route")
	}
	q := query.BuildPostQuery(filter, policy.VisibilityFilter(caller), page)
	return s.list(ctx, q)
}

func (s *Service) list(ctx context.Context, q query.PostQuery) (_ []*model.Post, _ int, err error) {
	ctx, span := tracing.StartSpan(ctx, "blogService.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	posts, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal("list posts", err)
	}
	if err := s.populateAuthors(ctx, posts...); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Get returns a single post. Reading a published post counts one view,
// persisted before the post is returned.
func (s *Service) Get(ctx context.Context, caller *model.Identity, id string) (_ *model.Post, err error) {
	ctx, span := tracing.StartSpan(ctx, "blogService.get", "post.id", id)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	post, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewSinglePost(caller, post) {
		return nil, apperr.Forbidden("Not authorized to view this post")
	}

	if post.IsPublished() {
		post, err = s.repo.IncrementViews(ctx, id)
		if err != nil {
			if errors.Is(err, ErrPostNotFound) {
				return nil, apperr.NotFound("Post not found")
			}
			return nil, apperr.Internal("increment post views", err)
		}
		s.metricsManager.CounterPostViews.Inc()
	}

	if err := s.populateAuthors(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) Create(ctx context.Context, caller *model.Identity, input PostInput) (_ *model.Post, err error) {
	ctx, span := tracing.StartSpan(ctx, "blogService.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if caller == nil {
		return nil, apperr.Unauthenticated("Not authorized")
	}

	now := s.Now()
	post := &model.Post{
		ID:            uuid.NewString(),
		Title:         s.sanitizer.PlainText(input.Title),
		Content:       s.sanitizer.RichText(input.Content),
		Excerpt:       s.sanitizer.PlainText(input.Excerpt),
		FeaturedImage: input.FeaturedImage,
		Status:        input.Status,
		AuthorID:      caller.ID,
		Categories:    s.sanitizer.PlainTextList(input.Categories),
		Tags:          s.sanitizer.PlainTextList(input.Tags),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Status == "" {
		post.Status = model.StatusDraft
	}
	if post.FeaturedImage == "" {
		post.FeaturedImage = model.DefaultFeaturedImage
	}
	if post.Excerpt == "" {
		post.Excerpt = DeriveExcerpt(post.Content)
	}
	if post.IsPublished() {
		post.PublishedAt = &now
	}
	post.Slug = Slugify(post.Title)

	if err := validatePost(post); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, s.storeError("create post", err)
	}
	s.metricsManager.CounterPostsCreated.Inc()
	log.Debugf("post %s created by %s", post.ID, caller.ID)

	if err := s.populateAuthors(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies a partial update. Slug follows the title, the excerpt is
// re-derived when it would end up empty or was itself derived from the old
// content, and publishedAt is only ever set once.
func (s *Service) Update(ctx context.Context, caller *model.Identity, id string, patch PostPatch) (_ *model.Post, err error) {
	ctx, span := tracing.StartSpan(ctx, "blogService.update", "post.id", id)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	post, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(caller, post) {
		return nil, apperr.Forbidden("Not authorized to update this post")
	}

	oldContent := post.Content
	excerptWasDerived := post.Excerpt == DeriveExcerpt(oldContent)

	if patch.Title != nil {
		post.Title = s.sanitizer.PlainText(*patch.Title)
		post.Slug = Slugify(post.Title)
	}
	if patch.Content != nil {
		post.Content = s.sanitizer.RichText(*patch.Content)
	}
	if patch.Excerpt != nil {
		post.Excerpt = s.sanitizer.PlainText(*patch.Excerpt)
	} else if post.Content != oldContent && excerptWasDerived {
		post.Excerpt = ""
	}
	if post.Excerpt == "" {
		post.Excerpt = DeriveExcerpt(post.Content)
	}
	if patch.FeaturedImage != nil {
		post.FeaturedImage = *patch.FeaturedImage
		if post.FeaturedImage == "" {
			post.FeaturedImage = model.DefaultFeaturedImage
		}
	}
	if patch.Status != nil {
		post.Status = *patch.Status
	}
	if patch.Categories != nil {
		post.Categories = s.sanitizer.PlainTextList(*patch.Categories)
	}
	if patch.Tags != nil {
		post.Tags = s.sanitizer.PlainTextList(*patch.Tags)
	}

	now := s.Now()
	if post.IsPublished() && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	post.UpdatedAt = now

	if err := validatePost(post); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, s.storeError("update post", err)
	}

	if err := s.populateAuthors(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, caller *model.Identity, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "blogService.delete", "post.id", id)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	post, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(caller, post) {
		return apperr.Forbidden("Not authorized to delete this post")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete post", err)
	}
	log.Debugf("post %s deleted by %s", id, caller.ID)
	return nil
}

func (s *Service) getExisting(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal("get post", err)
	}
	return post, nil
}

func (s *Service) storeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return apperr.NotFound("Post not found")
	case errors.Is(err, ErrSlugTaken):
		return apperr.Conflict("A post with this title already exists", err)
	default:
		return apperr.Internal(op, err)
	}
}

// populateAuthors fills the author display fields. Posts whose author no
// longer exists keep a nil Author.
func (s *Service) populateAuthors(ctx context.Context, posts ...*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}

	refs, err := s.authors.AuthorRefs(ctx, ids)
	if err != nil {
		return apperr.Internal("load post authors", err)
	}
	for _, p := range posts {
		p.Author = refs[p.AuthorID]
	}
	return nil
}

func validatePost(post *model.Post) error {
	var errs error
	if n := utf8.RuneCountInString(post.Title); n < 5 || n > 100 {
		errs = multierr.Append(errs, apperr.FieldError{Field: "title", Message: "must be between 5 and 100 characters"})
	} else if post.Slug == "" {
		errs = multierr.Append(errs, apperr.FieldError{Field: "title", Message: "must contain at least one letter or digit"})
	}
	if utf8.RuneCountInString(post.Content) < 10 {
		errs = multierr.Append(errs, apperr.FieldError{Field: "content", Message: "must be at least 10 characters"})
	}
	if utf8.RuneCountInString(post.Excerpt) > 200 {
		errs = multierr.Append(errs, apperr.FieldError{Field: "excerpt", Message: "must be at most 200 characters"})
	}
	if !post.Status.Valid() {
		errs = multierr.Append(errs, apperr.FieldError{Field: "status", Message: "must be one of: draft, published"})
	}
	return apperr.Collect("Validation failed", errs)
}

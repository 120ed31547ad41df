//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/blogpress/internal/model"
)

func (s *IntegrationTestSuite) TestPostLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	author := s.register(ctx)
	other := s.register(ctx)

	draft := s.createPost(ctx, author, model.StatusDraft)
	assert.Equal(t, model.StatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)
	assert.NotEmpty(t, draft.Slug)
	assert.True(t, strings.HasSuffix(draft.Excerpt, "..."))
	assert.Equal(t, model.DefaultFeaturedImage, draft.FeaturedImage)

	postPath := "/api/posts/" + draft.ID

	status, env := s.do(ctx, http.MethodGet, postPath, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized to view this post", env.Message)
	status, _ = s.do(ctx, http.MethodGet, postPath, nil, withToken(other.token))
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(ctx, http.MethodGet, postPath, nil, withToken(author.token))
	assert.Equal(t, http.StatusOK, status)

	// drafts never show up in public listings
	status, env = s.do(ctx, http.MethodGet, "/api/posts?search="+url.QueryEscape(draft.Title), nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Count)
	assert.Zero(t, *env.Count)

	status, _ = s.do(ctx, http.MethodPut, postPath, map[string]any{"title": "Hijacked title"}, withToken(other.token))
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(ctx, http.MethodPut, postPath, map[string]any{"status": model.StatusPublished}, withToken(author.token))
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "Post updated successfully", env.Message)
	var published model.Post
	s.decodeData(env, &published)
	require.NotNil(t, published.PublishedAt)

	for i := 0; i < 2; i++ {
		status, _ = s.do(ctx, http.MethodGet, postPath, nil)
		require.Equal(t, http.StatusOK, status)
	}
	var views int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT views FROM posts WHERE id = $1`, draft.ID).Scan(&views))
	assert.Equal(t, 2, views)

	// republishing keeps the original publish time
	status, env = s.do(ctx, http.MethodPut, postPath, map[string]any{"status": model.StatusDraft}, withToken(author.token))
	require.Equal(t, http.StatusOK, status)
	status, env = s.do(ctx, http.MethodPut, postPath, map[string]any{"status": model.StatusPublished}, withToken(author.token))
	require.Equal(t, http.StatusOK, status)
	var republished model.Post
	s.decodeData(env, &republished)
	require.NotNil(t, republished.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(*republished.PublishedAt))

	status, env = s.do(ctx, http.MethodGet, "/api/posts?search="+url.QueryEscape(strings.ToUpper(draft.Title)), nil)
	require.Equal(t, http.StatusOK, status)
	var found []*model.Post
	s.decodeData(env, &found)
	require.Len(t, found, 1)
	assert.Equal(t, draft.ID, found[0].ID)
	require.NotNil(t, found[0].Author)
	assert.Equal(t, author.user.Name, found[0].Author.Name)

	status, env = s.do(ctx, http.MethodPost, "/api/posts", map[string]any{
		"title":   draft.Title,
		"content": "some other content entirely",
	}, withToken(other.token))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "A post with this title already exists", env.Message)

	status, _ = s.do(ctx, http.MethodDelete, postPath, nil, withToken(other.token))
	assert.Equal(t, http.StatusForbidden, status)
	status, env = s.do(ctx, http.MethodDelete, postPath, nil, withToken(author.token))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted successfully", env.Message)

	status, env = s.do(ctx, http.MethodGet, postPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", env.Message)
}

func (s *IntegrationTestSuite) TestMyPostsAndPagination() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	author := s.register(ctx)
	for i := 0; i < 3; i++ {
		s.createPost(ctx, author, model.StatusPublished)
	}
	s.createPost(ctx, author, model.StatusDraft)

	status, env := s.do(ctx, http.MethodGet, "/api/posts/my-posts", nil, withToken(author.token))
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Total)
	assert.Equal(t, 4, *env.Total)

	status, env = s.do(ctx, http.MethodGet, "/api/posts/my-posts?status=draft", nil, withToken(author.token))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, *env.Total)

	status, env = s.do(ctx, http.MethodGet, "/api/posts?author="+author.user.ID+"&limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, *env.Total)
	assert.Equal(t, 1, *env.Count)

	status, env = s.do(ctx, http.MethodGet, "/api/posts?author="+author.user.ID+"&limit=2&page=9223372036854775807", nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, 3, *env.Total)
	assert.Zero(t, *env.Count)
	require.NotNil(t, env.Pagination)
	assert.Nil(t, env.Pagination.Next)
	assert.NotNil(t, env.Pagination.Prev)

	status, _ = s.do(ctx, http.MethodGet, "/api/posts?author=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(ctx, http.MethodGet, "/api/posts/my-posts", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

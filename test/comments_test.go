//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/blogpress/internal/model"
)

func (s *IntegrationTestSuite) TestComments() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	author := s.register(ctx)
	reader := s.register(ctx)

	post := s.createPost(ctx, author, model.StatusPublished)
	draft := s.createPost(ctx, author, model.StatusDraft)
	commentsPath := "/api/posts/" + post.ID + "/comments"

	status, env := s.do(ctx, http.MethodPost, commentsPath, map[string]string{"content": "  <b>Great</b> read  "}, withToken(reader.token))
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, "Comment added successfully", env.Message)
	var comment model.Comment
	s.decodeData(env, &comment)
	assert.Equal(t, "Great read", comment.Content)
	assert.True(t, comment.IsApproved)
	assert.Equal(t, post.ID, comment.PostID)

	status, _ = s.do(ctx, http.MethodPost, commentsPath, map[string]string{"content": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(ctx, http.MethodPost, commentsPath, map[string]string{"content": "<i></i>"}, withToken(reader.token))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(ctx, http.MethodPost, "/api/posts/"+draft.ID+"/comments", map[string]string{"content": "sneaky"}, withToken(reader.token))
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(ctx, http.MethodGet, commentsPath, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []*model.Comment
	s.decodeData(env, &listed)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Author)
	assert.Equal(t, reader.user.Name, listed[0].Author.Name)

	commentPath := "/api/comments/" + comment.ID
	status, _ = s.do(ctx, http.MethodPut, commentPath, map[string]string{"content": "edited by author"}, withToken(author.token))
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(ctx, http.MethodPut, commentPath, map[string]string{"content": "Great read, edited"}, withToken(reader.token))
	require.Equal(t, http.StatusOK, status)
	var updated model.Comment
	s.decodeData(env, &updated)
	assert.Equal(t, "Great read, edited", updated.Content)

	// a second comment goes away with its post
	status, _ = s.do(ctx, http.MethodPost, commentsPath, map[string]string{"content": "second"}, withToken(author.token))
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(ctx, http.MethodDelete, commentPath, nil, withToken(reader.token))
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(ctx, http.MethodDelete, commentPath, nil, withToken(reader.token))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(ctx, http.MethodDelete, "/api/posts/"+post.ID, nil, withToken(author.token))
	require.Equal(t, http.StatusOK, status)

	var remaining int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, post.ID).Scan(&remaining))
	assert.Zero(t, remaining)

	status, env = s.do(ctx, http.MethodGet, commentsPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", env.Message)
}

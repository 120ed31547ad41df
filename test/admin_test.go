//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/blogpress/internal/model"
)

func (s *IntegrationTestSuite) TestAdminRoutes() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := s.registerAdmin(ctx)
	author := s.register(ctx)
	s.createPost(ctx, author, model.StatusPublished)
	s.createPost(ctx, author, model.StatusDraft)

	for _, path := range []string{"/api/admin/stats", "/api/admin/users", "/api/admin/posts", "/api/admin/comments"} {
		status, env := s.do(ctx, http.MethodGet, path, nil, withToken(author.token))
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.Equal(t, "User role author is not authorized to access this route", env.Message, path)

		status, env = s.do(ctx, http.MethodGet, path, nil, withToken(admin.token))
		assert.Equal(t, http.StatusOK, status, path)
		assert.True(t, env.Success, path)
	}

	status, env := s.do(ctx, http.MethodGet, "/api/admin/stats", nil, withToken(admin.token))
	require.Equal(t, http.StatusOK, status)
	var dashboard model.DashboardStats
	s.decodeData(env, &dashboard)
	assert.GreaterOrEqual(t, dashboard.Stats.TotalUsers, 2)
	assert.GreaterOrEqual(t, dashboard.Stats.PublishedPosts, 1)
	assert.GreaterOrEqual(t, dashboard.Stats.DraftPosts, 1)
	assert.Equal(t, dashboard.Stats.TotalPosts, dashboard.Stats.PublishedPosts+dashboard.Stats.DraftPosts)
	assert.LessOrEqual(t, len(dashboard.TopAuthors), 5)
	assert.LessOrEqual(t, len(dashboard.RecentPosts), 5)
	assert.NotEmpty(t, dashboard.RecentPosts)

	// admins see drafts in the admin listing
	status, env = s.do(ctx, http.MethodGet, "/api/admin/posts?status=draft&author="+author.user.ID, nil, withToken(admin.token))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, *env.Total)

	status, env = s.do(ctx, http.MethodGet, "/api/admin/users?role=superuser", nil, withToken(admin.token))
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(ctx, http.MethodGet, "/api/admin/comments?approved=maybe", nil, withToken(admin.token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid filter", env.Message)
}

func (s *IntegrationTestSuite) TestAdminUserManagement() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := s.registerAdmin(ctx)
	author := s.register(ctx)

	// resolve the author once so a cached identity exists before the promotion
	status, _ := s.do(ctx, http.MethodGet, "/api/admin/stats", nil, withToken(author.token))
	require.Equal(t, http.StatusForbidden, status)

	rolePath := "/api/admin/users/" + author.user.ID + "/role"
	status, _ = s.do(ctx, http.MethodPut, rolePath, map[string]string{"role": "overlord"}, withToken(admin.token))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(ctx, http.MethodPut, "/api/admin/users/"+uuid.NewString()+"/role", map[string]string{"role": "admin"}, withToken(admin.token))
	assert.Equal(t, http.StatusNotFound, status)

	status, env := s.do(ctx, http.MethodPut, rolePath, map[string]string{"role": "admin"}, withToken(admin.token))
	require.Equal(t, http.StatusOK, status, env.Message)
	var promoted model.User
	s.decodeData(env, &promoted)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	status, _ = s.do(ctx, http.MethodGet, "/api/admin/stats", nil, withToken(author.token))
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(ctx, http.MethodDelete, "/api/admin/users/"+admin.user.ID, nil, withToken(admin.token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot delete your own account", env.Message)

	post := s.createPost(ctx, author, model.StatusPublished)

	status, _ = s.do(ctx, http.MethodDelete, "/api/admin/users/"+author.user.ID, nil, withToken(admin.token))
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(ctx, http.MethodDelete, "/api/admin/users/"+author.user.ID, nil, withToken(admin.token))
	assert.Equal(t, http.StatusNotFound, status)

	// the deleted user's token stops working and their posts lose the author
	status, _ = s.do(ctx, http.MethodGet, "/api/auth/me", nil, withToken(author.token))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(ctx, http.MethodGet, "/api/posts/"+post.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var orphan model.Post
	s.decodeData(env, &orphan)
	assert.Nil(t, orphan.Author)
}

func (s *IntegrationTestSuite) TestAdminTopAuthorsTruncated() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := s.registerAdmin(ctx)

	// counts stay well above what the other suite tests create per author
	var authors []*account
	for i := 0; i < 6; i++ {
		author := s.register(ctx)
		authors = append(authors, author)
		_, err := s.DB.ExecContext(ctx, `
			INSERT INTO posts (id, title, slug, content, featured_image, status, author_id)
			SELECT gen_random_uuid(), 'Bulk post ' || g, $2::text || '-' || g, 'bulk content', 'default.jpg', 'published', $1::uuid
			FROM generate_series(1, $3::int) AS g`,
			author.user.ID, "bulk-"+author.user.ID, 30-i,
		)
		require.NoError(t, err)
	}

	status, env := s.do(ctx, http.MethodGet, "/api/admin/stats", nil, withToken(admin.token))
	require.Equal(t, http.StatusOK, status, env.Message)
	var dashboard model.DashboardStats
	s.decodeData(env, &dashboard)

	require.Len(t, dashboard.TopAuthors, 5)
	for i, top := range dashboard.TopAuthors {
		assert.Equal(t, authors[i].user.ID, top.Author.ID)
		assert.Equal(t, 30-i, top.PostCount)
		assert.Equal(t, 30-i, top.PublishedCount)
		assert.NotEqual(t, authors[5].user.ID, top.Author.ID)
	}
}

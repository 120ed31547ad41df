//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/auth"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Count      *int                `json:"count"`
	Total      *int                `json:"total"`
	Pagination *query.Pagination   `json:"pagination"`
	Errors     []apperr.FieldError `json:"errors"`
}

type account struct {
	user     *model.User
	password string
	token    string
}

type requestOption func(req *http.Request)

func withToken(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withClientIP(ip string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("X-Real-Ip", ip)
	}
}

// do sends body as JSON and decodes the response envelope. Data is left raw
// so callers can decode it into whatever the route returns.
func (s *IntegrationTestSuite) do(
	ctx context.Context,
	method, path string,
	body any,
	opts ...requestOption,
) (int, envelope) {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, &payload)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *IntegrationTestSuite) decodeData(env envelope, target any) {
	require.NoError(s.T(), json.Unmarshal(env.Data, target))
}

func (s *IntegrationTestSuite) register(ctx context.Context) *account {
	password := gofakeit.Password(true, true, true, false, false, 12)
	status, env := s.do(ctx, http.MethodPost, "/api/auth/register", auth.RegisterRequest{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: password,
	})
	require.Equal(s.T(), http.StatusCreated, status, env.Message)

	var session auth.Session
	s.decodeData(env, &session)
	require.NotEmpty(s.T(), session.Token)

	return &account{user: session.User, password: password, token: session.Token}
}

// registerAdmin promotes a fresh account directly in the database. The
// promotion happens before the first authenticated request, so no stale
// identity is cached for it.
func (s *IntegrationTestSuite) registerAdmin(ctx context.Context) *account {
	acc := s.register(ctx)
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET role = 'admin' WHERE id = $1`, acc.user.ID)
	require.NoError(s.T(), err)
	acc.user.Role = model.RoleAdmin
	return acc
}

func (s *IntegrationTestSuite) createPost(ctx context.Context, author *account, status model.PostStatus) *model.Post {
	statusCode, env := s.do(ctx, http.MethodPost, "/api/posts", map[string]any{
		"title":      fmt.Sprintf("%s %s", gofakeit.HipsterWord(), gofakeit.UUID()[:8]),
		"content":    gofakeit.Paragraph(2, 4, 12, " "),
		"status":     status,
		"categories": []string{gofakeit.Hobby()},
	}, withToken(author.token))
	require.Equal(s.T(), http.StatusCreated, statusCode, env.Message)

	var post model.Post
	s.decodeData(env, &post)
	return &post
}

//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/blogpress/internal/auth"
	"github.com/2beens/blogpress/internal/model"
)

func (s *IntegrationTestSuite) TestRegisterAndLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acc := s.register(ctx)
	assert.Equal(t, model.RoleAuthor, acc.user.Role)

	// duplicate email, differently cased
	status, env := s.do(ctx, http.MethodPost, "/api/auth/register", auth.RegisterRequest{
		Name:     "Someone Else",
		Email:    strings.ToUpper(acc.user.Email),
		Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User already exists", env.Message)

	status, env = s.do(ctx, http.MethodPost, "/api/auth/register", auth.RegisterRequest{
		Name:     "x",
		Email:    "not-an-email",
		Password: "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, env.Errors, 3)

	cases := map[string]struct {
		password       string
		expectedStatus int
	}{
		"good creds": {password: acc.password, expectedStatus: http.StatusOK},
		"bad creds":  {password: acc.password + "x", expectedStatus: http.StatusUnauthorized},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			t := s.T()
			status, env := s.do(ctx, http.MethodPost, "/api/auth/login", auth.LoginRequest{
				Email:    acc.user.Email,
				Password: tc.password,
			}, withClientIP(gofakeit.IPv4Address()))
			require.Equal(t, tc.expectedStatus, status)
			if status != http.StatusOK {
				assert.Equal(t, "Invalid credentials", env.Message)
				return
			}

			var session auth.Session
			s.decodeData(env, &session)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, acc.user.ID, session.User.ID)
		})
	}
}

func (s *IntegrationTestSuite) TestMeAndLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acc := s.register(ctx)

	status, env := s.do(ctx, http.MethodGet, "/api/auth/me", nil, withToken(acc.token))
	require.Equal(t, http.StatusOK, status)
	var me model.User
	s.decodeData(env, &me)
	assert.Equal(t, acc.user.ID, me.ID)
	assert.Equal(t, acc.user.Email, me.Email)

	revokedBefore, err := s.redisClient.Keys(ctx, "blogpress||revoked||*").Result()
	require.NoError(t, err)

	status, env = s.do(ctx, http.MethodPost, "/api/auth/logout", nil, withToken(acc.token))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logged out", env.Message)

	revokedAfter, err := s.redisClient.Keys(ctx, "blogpress||revoked||*").Result()
	require.NoError(t, err)
	assert.Len(t, revokedAfter, len(revokedBefore)+1)

	status, env = s.do(ctx, http.MethodGet, "/api/auth/me", nil, withToken(acc.token))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized, token failed", env.Message)

	status, _ = s.do(ctx, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestLoginRateLimit() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientIP := gofakeit.IPv4Address()
	login := auth.LoginRequest{Email: gofakeit.Email(), Password: "wrong-password"}

	for i := 0; i < loginsPerMinute; i++ {
		status, _ := s.do(ctx, http.MethodPost, "/api/auth/login", login, withClientIP(clientIP))
		require.Equal(t, http.StatusUnauthorized, status, "attempt %d", i)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("X-Real-Ip", clientIP)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	require.NoError(t, err)
	assert.Positive(t, retryAfter)

	// other clients are not affected
	status, _ := s.do(ctx, http.MethodPost, "/api/auth/login", login, withClientIP(gofakeit.IPv4Address()))
	assert.Equal(t, http.StatusUnauthorized, status)
}

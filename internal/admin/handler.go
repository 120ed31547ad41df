package admin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/2beens/blogpress/internal/api"
	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/auth"
	"github.com/2beens/blogpress/internal/blog"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=admin_test

type userAdmin interface {
	List(ctx context.Context, caller *model.Identity, role model.Role, page query.Page) ([]*model.User, int, error)
	UpdateRole(ctx context.Context, caller *model.Identity, id string, role model.Role) (*model.User, error)
	Delete(ctx context.Context, caller *model.Identity, id string) error
}

type postAdmin interface {
	AdminList(ctx context.Context, caller *model.Identity, filter query.PostFilter, page query.Page) ([]*model.Post, int, error)
}

type commentAdmin interface {
	AdminList(ctx context.Context, caller *model.Identity, filter query.CommentFilter, page query.Page) ([]*model.Comment, int, error)
}

type dashboard interface {
	Dashboard(ctx context.Context, caller *model.Identity) (*model.DashboardStats, error)
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type Handler struct {
	users     userAdmin
	posts     postAdmin
	comments  commentAdmin
	dashboard dashboard
}

func NewHandler(users userAdmin, posts postAdmin, comments commentAdmin, dashboard dashboard) *Handler {
	return &Handler{
		users:     users,
		posts:     posts,
		comments:  comments,
		dashboard: dashboard,
	}
}

// SetupRoutes registers the admin surface; every route sits behind the admin guard.
func (h *Handler) SetupRoutes(router *mux.Router, guards api.Guards) {
	guards = guards.WithDefaults()
	r := router.PathPrefix("/api/admin").Subrouter()

	r.Handle("/users", guards.Admin(http.HandlerFunc(h.handleUsers))).Methods("GET").Name("admin-users")
	r.Handle("/users/{id}/role", guards.Admin(http.HandlerFunc(h.handleUpdateRole))).Methods("PUT").Name("admin-user-role")
	r.Handle("/users/{id}", guards.Admin(http.HandlerFunc(h.handleDeleteUser))).Methods("DELETE").Name("admin-user-delete")
	r.Handle("/posts", guards.Admin(http.HandlerFunc(h.handlePosts))).Methods("GET").Name("admin-posts")
	r.Handle("/comments", guards.Admin(http.HandlerFunc(h.handleComments))).Methods("GET").Name("admin-comments")
	r.Handle("/stats", guards.Admin(http.HandlerFunc(h.handleStats))).Methods("GET").Name("admin-stats")
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	page := query.ParsePage(r.URL.Query(), query.DefaultUsersLimit)
	role := model.Role(r.URL.Query().Get("role"))

	users, total, err := h.users.List(r.Context(), auth.IdentityFrom(r.Context()), role, page)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.List(w, users, total, page)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var req UpdateRoleRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	user, err := h.users.UpdateRole(r.Context(), auth.IdentityFrom(r.Context()), id, model.Role(req.Role))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Respond(w, http.StatusOK, "User role updated successfully", user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), auth.IdentityFrom(r.Context()), id); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "User deleted successfully")
}

func (h *Handler) handlePosts(w http.ResponseWriter, r *http.Request) {
	filter, err := blog.ParsePostFilter(r.URL.Query())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	page := query.ParsePage(r.URL.Query(), query.DefaultAdminPostsLimit)

	posts, total, err := h.posts.AdminList(r.Context(), auth.IdentityFrom(r.Context()), filter, page)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.List(w, posts, total, page)
}

func (h *Handler) handleComments(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseCommentFilter(r.URL.Query())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	page := query.ParsePage(r.URL.Query(), query.DefaultModerationLimit)

	comments, total, err := h.comments.AdminList(r.Context(), auth.IdentityFrom(r.Context()), filter, page)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.List(w, comments, total, page)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Dashboard(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.OK(w, stats)
}

// ParseCommentFilter reads the moderation filters: approved, post and author.
func ParseCommentFilter(values url.Values) (query.CommentFilter, error) {
	var (
		filter query.CommentFilter
		fields []apperr.FieldError
	)

	if raw := values.Get("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "approved", Message: "must be true or false"})
		} else {
			filter.Approved = &approved
		}
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{name: "post", dst: &filter.PostID},
		{name: "author", dst: &filter.AuthorID},
	} {
		raw := values.Get(f.name)
		if raw == "" {
			continue
		}
		if _, err := uuid.Parse(raw); err != nil {
			fields = append(fields, apperr.FieldError{Field: f.name, Message: "must be a valid id"})
			continue
		}
		*f.dst = raw
	}

	if len(fields) > 0 {
		return query.CommentFilter{}, apperr.Validation("Invalid filter", fields...)
	}
	return filter, nil
}

package blog

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/2beens/blogpress/internal/api"
	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/auth"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=blog_test

type postService interface {
	List(ctx context.Context, caller *model.Identity, filter query.PostFilter, page query.Page) ([]*model.Post, int, error)
	MyPosts(ctx context.Context, caller *model.Identity, status model.PostStatus, page query.Page) ([]*model.Post, int, error)
	Get(ctx context.Context, caller *model.Identity, id string) (*model.Post, error)
	Create(ctx context.Context, caller *model.Identity, input PostInput) (*model.Post, error)
	Update(ctx context.Context, caller *model.Identity, id string, patch PostPatch) (*model.Post, error)
	Delete(ctx context.Context, caller *model.Identity, id string) error
}

type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=5,max=100"`
	Content       string   `json:"content" validate:"required,min=10"`
	Excerpt       string   `json:"excerpt" validate:"max=200"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,url"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published"`
	Categories    []string `json:"categories" validate:"omitempty,dive,max=50"`
	Tags          []string `json:"tags" validate:"omitempty,dive,max=50"`
}

type UpdatePostRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=5,max=100"`
	Content       *string   `json:"content" validate:"omitempty,min=10"`
	Excerpt       *string   `json:"excerpt" validate:"omitempty,max=200"`
	FeaturedImage *string   `json:"featuredImage" validate:"omitempty,url"`
	Status        *string   `json:"status" validate:"omitempty,oneof=draft published"`
	Categories    *[]string `json:"categories" validate:"omitempty,dive,max=50"`
	Tags          *[]string `json:"tags" validate:"omitempty,dive,max=50"`
}

type Handler struct {
	service postService
}

func NewHandler(service postService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, guards api.Guards) {
	guards = guards.WithDefaults()
	r := router.PathPrefix("/api/posts").Subrouter()

	r.Handle("", guards.Optional(http.HandlerFunc(h.handleList))).Methods("GET").Name("posts-list")
	r.Handle("", guards.Required(http.HandlerFunc(h.handleCreate))).Methods("POST").Name("posts-create")
	// registered before /{id} so it is not taken for a post id
	r.Handle("/my-posts", guards.Required(http.HandlerFunc(h.handleMyPosts))).Methods("GET").Name("posts-mine")
	r.Handle("/{id}", guards.Optional(http.HandlerFunc(h.handleGet))).Methods("GET").Name("posts-get")
	r.Handle("/{id}", guards.Required(http.HandlerFunc(h.handleUpdate))).Methods("PUT").Name("posts-update")
	r.Handle("/{id}", guards.Required(http.HandlerFunc(h.handleDelete))).Methods("DELETE").Name("posts-delete")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := ParsePostFilter(r.URL.Query())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	page := query.ParsePage(r.URL.Query(), query.DefaultPostsLimit)

	posts, total, err := h.service.List(r.Context(), auth.IdentityFrom(r.Context()), filter, page)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.List(w, posts, total, page)
}

func (h *Handler) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(r.URL.Query().Get("status"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	page := query.ParsePage(r.URL.Query(), query.DefaultMyPostsLimit)

	posts, total, err := h.service.MyPosts(r.Context(), auth.IdentityFrom(r.Context()), status, page)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.List(w, posts, total, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	post, err := h.service.Get(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.OK(w, post)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	post, err := h.service.Create(r.Context(), auth.IdentityFrom(r.Context()), PostInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Status:        model.PostStatus(req.Status),
		Categories:    req.Categories,
		Tags:          req.Tags,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Respond(w, http.StatusCreated, "Post created successfully", post)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var req UpdatePostRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	patch := PostPatch{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Categories:    req.Categories,
		Tags:          req.Tags,
	}
	if req.Status != nil {
		status := model.PostStatus(*req.Status)
		patch.Status = &status
	}

	post, err := h.service.Update(r.Context(), auth.IdentityFrom(r.Context()), id, patch)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Respond(w, http.StatusOK, "Post updated successfully", post)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), auth.IdentityFrom(r.Context()), id); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "Post deleted successfully")
}

// ParsePostFilter reads the declared post filters from a query string.
// Unknown statuses and malformed author ids are rejected.
func ParsePostFilter(values url.Values) (query.PostFilter, error) {
	status, err := parseStatus(values.Get("status"))
	if err != nil {
		return query.PostFilter{}, err
	}

	author := values.Get("author")
	if author != "" {
		if _, err := uuid.Parse(author); err != nil {
			return query.PostFilter{}, apperr.Validation("Invalid author", apperr.FieldError{Field: "author", Message: "must be a valid id"})
		}
	}

	return query.PostFilter{
		Search:   values.Get("search"),
		Status:   status,
		AuthorID: author,
		Category: values.Get("category"),
	}, nil
}

func parseStatus(raw string) (model.PostStatus, error) {
	if raw == "" {
		return "", nil
	}
	status := model.PostStatus(raw)
	if !status.Valid() {
		return "", apperr.Validation("Invalid status", apperr.FieldError{Field: "status", Message: "must be one of: draft, published"})
	}
	return status, nil
}


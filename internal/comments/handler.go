package comments

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/blogpress/internal/api"
	"github.com/2beens/blogpress/internal/auth"
	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/query"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=comments_test

type commentService interface {
	ListForPost(ctx context.Context, caller *model.Identity, postID string, page query.Page) ([]*model.Comment, int, error)
	Create(ctx context.Context, caller *model.Identity, postID string, input CommentInput) (*model.Comment, error)
	Update(ctx context.Context, caller *model.Identity, id, content string) (*model.Comment, error)
	Delete(ctx context.Context, caller *model.Identity, id string) error
}

type CreateCommentRequest struct {
	Content         string  `json:"content" validate:"required,max=500"`
	ParentCommentID *string `json:"parentCommentId" validate:"omitempty,uuid"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type Handler struct {
	service commentService
}

func NewHandler(service commentService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, guards api.Guards) {
	guards = guards.WithDefaults()

	router.Handle("/api/posts/{id}/comments", guards.Optional(http.HandlerFunc(h.handleListForPost))).
		Methods("GET").Name("post-comments-list")
	router.Handle("/api/posts/{id}/comments", guards.Required(http.HandlerFunc(h.handleCreate))).
		Methods("POST").Name("post-comments-create")

	r := router.PathPrefix("/api/comments").Subrouter()
	r.Handle("/{id}", guards.Required(http.HandlerFunc(h.handleUpdate))).Methods("PUT").Name("comments-update")
	r.Handle("/{id}", guards.Required(http.HandlerFunc(h.handleDelete))).Methods("DELETE").Name("comments-delete")
}

func (h *Handler) handleListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	page := query.ParsePage(r.URL.Query(), query.DefaultCommentsLimit)

	comments, total, err := h.service.ListForPost(r.Context(), auth.IdentityFrom(r.Context()), postID, page)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.List(w, comments, total, page)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	postID, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var req CreateCommentRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	comment, err := h.service.Create(r.Context(), auth.IdentityFrom(r.Context()), postID, CommentInput{
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Respond(w, http.StatusCreated, "Comment added successfully", comment)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var req UpdateCommentRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	comment, err := h.service.Update(r.Context(), auth.IdentityFrom(r.Context()), id, req.Content)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Respond(w, http.StatusOK, "Comment updated successfully", comment)
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
	api.Message(w, http.StatusOK, "Comment deleted successfully")
}

package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/blogpress/internal/api"
	"github.com/2beens/blogpress/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type authService interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, caller *model.Identity) (*model.User, error)
	Logout(ctx context.Context, claims *Claims) error
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Handler struct {
	service authService
}

func NewHandler(service authService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SetupRoutes(router *mux.Router, guards api.Guards) {
	guards = guards.WithDefaults()
	r := router.PathPrefix("/api/auth").Subrouter()

	r.Handle("/register", http.HandlerFunc(h.handleRegister)).Methods("POST").Name("auth-register")
	r.Handle("/login", guards.LoginLimit(http.HandlerFunc(h.handleLogin))).Methods("POST").Name("auth-login")
	r.Handle("/me", guards.Required(http.HandlerFunc(h.handleMe))).Methods("GET").Name("auth-me")
	r.Handle("/logout", guards.Required(http.HandlerFunc(h.handleLogout))).Methods("POST").Name("auth-logout")
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.Created(w, session)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.OK(w, session)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.OK(w, user)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), ClaimsFrom(r.Context())); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "Logged out")
}

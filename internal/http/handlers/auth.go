package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/expense-tracker-be/internal/auth"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

// AuthHandler owns signup/login endpoints backed by the user store.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log}
}

// Register attaches the public auth routes. limit wraps the credential
// endpoints and may be nil.
func (h *AuthHandler) Register(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
	})
}

// RegisterProtected attaches routes that need an authenticated caller.
func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Get("/me", h.handleMe)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Message(w, http.StatusBadRequest, "username and password are required")
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.ErrorContext(r.Context(), "hash password", "error", err)
		respond.Message(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{Username: username, PasswordHash: passwordHash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Message(w, http.StatusBadRequest, "Username already exists.")
			return
		}
		storeError(w, r, h.log, "create user", err)
		return
	}

	h.log.InfoContext(r.Context(), "user signed up", "user_id", created.ID, "username", created.Username)
	respond.Message(w, http.StatusCreated, "Signup successful. Please login.")
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)

	user, err := h.store.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Message(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		storeError(w, r, h.log, "find user", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.Message(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.log.ErrorContext(r.Context(), "generate token", "error", err)
		respond.Message(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{
		Message:  "Login successful",
		Username: user.Username,
		Token:    token,
	})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	respond.JSON(w, http.StatusOK, dto.MeResponse{Username: id.Username})
}

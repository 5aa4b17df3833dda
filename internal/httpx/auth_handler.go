package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-room-booking/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type IdentityService interface {
	Authenticator
	Register(ctx context.Context, in identity.Registration) (identity.User, error)
	Login(ctx context.Context, in identity.Credentials) (identity.User, string, error)
	ResetPassword(ctx context.Context, in identity.PasswordReset) error
	UpdateProfile(ctx context.Context, id uuid.UUID, in identity.ProfileUpdate) (identity.User, error)
	Users(ctx context.Context) ([]identity.User, error)
}

type AuthHandler struct {
	Users IdentityService
	Log   *slog.Logger
}

type userResp struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    identity.User `json:"user"`
	Token   string        `json:"token,omitempty"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type messageResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *AuthHandler) Register(r chi.Router) {
	signedIn := RequireSignIn(h.Users, h.Log)
	admin := IsAdmin(h.Log)

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/forgot-password", h.forgotPassword)

	r.With(signedIn).Get("/auth/user-auth", h.ok)
	r.With(signedIn, admin).Get("/auth/admin-auth", h.ok)
	r.With(signedIn).Put("/auth/profile", h.updateProfile)
	r.With(signedIn, admin).Get("/auth/all-users", h.allUsers)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req identity.Registration
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Register(ctx, req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResp{Success: true, Message: "User registered successfully", User: u})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req identity.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, token, err := h.Users.Login(ctx, req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, userResp{Success: true, Message: "Logged in successfully", User: u, Token: token})
}

func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req identity.PasswordReset
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.ResetPassword(ctx, req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Success: true, Message: "Password reset successfully"})
}

func (h *AuthHandler) ok(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req identity.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, identity.UserID(r.Context()), req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, userResp{Success: true, Message: "Profile updated successfully", User: u})
}

func (h *AuthHandler) allUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	users, err := h.Users.Users(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/auth"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/middleware"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/upstream"
	"golang.org/x/crypto/bcrypt"
)

// UpstreamAuth defines the backend methods needed by the auth handler.
// Satisfied by *upstream.Client; narrow interface for testability.
type UpstreamAuth interface {
	Login(ctx context.Context, email, password, role string) (upstream.User, string, error)
	Enabled() bool
}

// localUser is one entry of the seeded demo directory used when the central
// backend is unreachable or not configured.
type localUser struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash []byte
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessions  *state.Manager
	backend   UpstreamAuth
	jwtSecret string
	directory []localUser
}

// NewAuthHandler creates a new AuthHandler. The local directory holds one
// demo user per role, all sharing demoPassword.
func NewAuthHandler(sessions *state.Manager, backend UpstreamAuth, jwtSecret, demoPassword string) (*AuthHandler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		sessions:  sessions,
		backend:   backend,
		jwtSecret: jwtSecret,
		directory: []localUser{
			{ID: "local-admin", Name: "Asha Rao", Email: "admin@rms.local", Role: enum.RoleAdmin, PasswordHash: hash},
			{ID: "local-waiter", Name: "Priya Nair", Email: "waiter@rms.local", Role: enum.RoleWaiter, PasswordHash: hash},
			{ID: "local-chef", Name: "Ravi Kumar", Email: "chef@rms.local", Role: enum.RoleChef, PasswordHash: hash},
			{ID: "local-tm", Name: "Dev Mehta", Email: "tm@rms.local", Role: enum.RoleTableManager, PasswordHash: hash},
		},
	}, nil
}

// RegisterRoutes registers public auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

// RegisterProtectedRoutes registers auth endpoints that require a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}

// --- Handlers ---

// Login authenticates against the central backend when one is configured,
// falling back to the local demo directory when the backend is unreachable.
// The fallback is explicit and logged; a backend that answers with a
// credential rejection is authoritative and ends the attempt.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}
	if !enum.ValidRole(req.Role) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
		return
	}

	if h.backend.Enabled() {
		user, backendToken, err := h.backend.Login(r.Context(), req.Email, req.Password, req.Role)
		switch {
		case err == nil:
			if user.Role != req.Role {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "role not granted"})
				return
			}
			h.respondWithSession(w, user.ID, user.Name, user.Role, backendToken)
			return
		case errors.Is(err, upstream.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		default:
			log.Printf("WARN: backend login failed, falling back to local directory: %v", err)
		}
	}

	user, ok := h.lookupLocal(req.Email, req.Role)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	h.respondWithSession(w, user.ID, user.Name, user.Role, "")
}

// Refresh exchanges a valid refresh token for a new token pair bound to the
// same session. A session discarded by logout cannot be refreshed into.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "refresh_token is required"})
		return
	}

	claims, err := auth.ValidateToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}

	if h.sessions.Get(claims.SessionID) == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
		return
	}

	h.respondWithTokens(w, claims.UserID, claims.SessionID, claims.Name, claims.Role)
}

// Logout discards the caller's session. The floor state is gone for good.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	h.sessions.Delete(claims.SessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// --- Helpers ---

func (h *AuthHandler) lookupLocal(email, role string) (localUser, bool) {
	for _, u := range h.directory {
		if u.Email == email && u.Role == role {
			return u, true
		}
	}
	return localUser{}, false
}

// respondWithSession seeds a fresh session. The backend's bearer token rides
// along so later backend calls act on behalf of this login.
func (h *AuthHandler) respondWithSession(w http.ResponseWriter, userID, name, role, upstreamToken string) {
	session := h.sessions.Create()
	session.UpstreamToken = upstreamToken
	h.respondWithTokens(w, userID, session.ID, name, role)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, userID string, sessionID uuid.UUID, name, role string) {
	accessToken, err := auth.GenerateToken(h.jwtSecret, userID, sessionID, name, role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, userID, sessionID, name, role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: userResponse{
			ID:        userID,
			SessionID: sessionID,
			Name:      name,
			Role:      role,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

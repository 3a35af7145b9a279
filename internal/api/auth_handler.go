package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskly/tasks-api/internal/api/shared"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/service/auth"
	"github.com/taskly/tasks-api/internal/store"
)

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if userStore == nil || jwtService == nil || passwordVerifier == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore, jwtService and passwordVerifier are required for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register/.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := domain.NewUser(req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// Token handles POST /api/auth/token/ and exchanges credentials for an
// access/refresh token pair.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TokenRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userStore.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Unknown users and wrong passwords look the same from outside.
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("password comparison failed", slog.String("user_id", user.ID.String()))
		}
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	h.issueTokenPair(w, r, user)
}

func (h *AuthHandler) issueTokenPair(w http.ResponseWriter, r *http.Request, user *domain.User) {
	access, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID, user.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate refresh token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{Access: access, Refresh: refresh})
}

// RefreshToken handles POST /api/auth/token/refresh/ and issues a new access
// token for a valid refresh token whose user still exists.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.Refresh)
	if err != nil {
		if MapErrorToStatusCode(err) != http.StatusUnauthorized {
			err = errors.Join(auth.ErrInvalidRefreshToken, err)
		}
		HandleAPIError(w, r, err, msgInvalidRefresh)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidRefreshToken, msgInvalidRefresh)
			return
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	access, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{Access: access})
}

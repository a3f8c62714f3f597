package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/whattoeat/backend/internal/middleware"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
)

type AuthHandler struct {
	userService   services.UserService
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthHandler(userService services.UserService, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse(models.CodeConflict, "Email already registered"))
			return
		}
		log.Printf("[Register] email=%s error=%v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(models.CodeInternal, "Failed to create user"))
		return
	}

	h.writeToken(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	user, err := h.userService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidPassword) {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Invalid email or password"))
			return
		}
		log.Printf("[Login] email=%s error=%v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(models.CodeInternal, "Login failed"))
		return
	}

	h.writeToken(w, http.StatusOK, user)
}

// GetSession returns the session resolved by the auth middleware.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if !sess.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(sess))
}

func (h *AuthHandler) writeToken(w http.ResponseWriter, status int, user *models.User) {
	token, err := middleware.IssueToken(h.jwtSecret, user, h.jwtExpiration)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(models.CodeInternal, "Failed to generate token"))
		return
	}

	writeJSON(w, status, models.NewSuccessResponse(models.AuthResponse{
		Token: token,
		User:  *user,
	}))
}

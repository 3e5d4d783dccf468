package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/middleware"
	"github.com/pawtrails/pawtrails-api/internal/pkg/response"
	"github.com/pawtrails/pawtrails-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.repo.GetByID(r.Context(), userID)
	if errors.Is(err, ErrUserNotFound) {
		response.NotFound(w, "user not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get current user failed")
		response.InternalError(w)
		return
	}

	response.OK(w, user)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanlens/internal/service"
)

// AuthHandler handles authentication and officer management endpoints.
type AuthHandler struct {
	errorHandler
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{errorHandler: errorHandler{logger: logger}, authService: authService}
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Exchange officer credentials for an access and refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response{data=TokenResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Invalid credentials"
// @Failure 403 {object} ErrorResponseBody "Officer inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tokenPair, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Response{data=TokenResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil || input.RefreshToken == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "refresh_token is required")
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// CreateOfficer handles POST /api/v1/officers
// @Summary Create an officer
// @Description Admin only. Adds an underwriter or admin account.
// @Tags officers
// @Accept json
// @Produce json
// @Param request body CreateOfficerRequest true "Officer details"
// @Success 201 {object} Response{data=domain.Officer}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Failure 409 {object} ErrorResponseBody "Email already exists"
// @Security BearerAuth
// @Router /officers [post]
func (h *AuthHandler) CreateOfficer(c *gin.Context) {
	var input service.CreateOfficerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	officer, err := h.authService.CreateOfficer(c.Request.Context(), input)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondCreated(c, officer)
}

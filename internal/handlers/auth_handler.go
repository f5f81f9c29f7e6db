package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	sessions    *SessionAuthMiddleware
}

func NewAuthHandler(authService services.AuthService, sessions *SessionAuthMiddleware, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		sessions:    sessions,
	}
}

// LoginData is returned by a successful login
type LoginData struct {
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Login signs an admin in
// @Summary Login
// @Description Exchanges credentials for a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body validator.LoginRequest true "Credentials"
// @Success 200 {object} SuccessResponse{data=LoginData}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sessions.setCookie(c, session)
	h.respond(c, http.StatusOK, LoginData{
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout ends the session
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse{data=MessageData}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.sessions.sessionID(c)); err != nil {
		h.LogError(c, err, "Failed to delete session")
	}
	h.sessions.clearCookie(c)
	h.respondMessage(c, "msg.logged_out")
}

// Me returns the signed in admin
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}
	h.respond(c, http.StatusOK, user)
}

// UpdateProfile changes the admin's username, email or password
// @Summary Update profile
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body validator.ProfileUpdateRequest true "Changed fields"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req validator.ProfileUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), h.sessions.sessionID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, user)
}

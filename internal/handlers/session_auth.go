package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
)

// CookieConfig controls the admin session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionAuthMiddleware authenticates admin requests by their session cookie
type SessionAuthMiddleware struct {
	BaseHandler
	authService services.AuthService
	cookie      CookieConfig
}

func NewSessionAuthMiddleware(authService services.AuthService, cookie CookieConfig, logger utils.Logger) *SessionAuthMiddleware {
	if cookie.Name == "" {
		cookie.Name = "session_id"
	}
	return &SessionAuthMiddleware{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		cookie:      cookie,
	}
}

// AuthMiddleware loads the session and attaches its backend token and id to
// the request context, so backend calls carry the admin's credentials
func (m *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(m.cookie.Name)
		session, err := m.authService.Session(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthorized) {
				m.LogError(c, err, "Failed to load session")
			}
			m.fail(c, http.StatusUnauthorized, "UNAUTHORIZED", gin.H{"redirect": loginPath})
			return
		}

		ctx := backend.WithToken(c.Request.Context(), session.Token)
		ctx = services.WithSessionID(ctx, session.ID)
		ctx = services.WithUserID(ctx, session.User.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("session_id", session.ID)
		c.Set("user", &session.User)
		c.Set("user_id", session.User.ID)
		c.Next()
	}
}

func (m *SessionAuthMiddleware) setCookie(c *gin.Context, session *models.Session) {
	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, session.ID, maxAge, "/", "", m.cookie.Secure, true)
}

func (m *SessionAuthMiddleware) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

func (m *SessionAuthMiddleware) sessionID(c *gin.Context) string {
	if id := c.GetString("session_id"); id != "" {
		return id
	}
	id, _ := c.Cookie(m.cookie.Name)
	return id
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

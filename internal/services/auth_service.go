package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/events"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

type (
	sessionKey struct{}
	userKey    struct{}
)

// WithSessionID attaches the admin session id of the current request
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFromContext returns the id attached with WithSessionID
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithUserID attaches the id of the admin behind the current request
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserIDFromContext returns the id attached with WithUserID, or 0
func UserIDFromContext(ctx context.Context) uint {
	id, _ := ctx.Value(userKey{}).(uint)
	return id
}

type authService struct {
	backend    SurveyBackend
	sessions   repositories.SessionRepository
	publisher  events.EventPublisher
	validator  *validator.Validator
	logger     *slog.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(
	backend SurveyBackend,
	sessions repositories.SessionRepository,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		backend:    backend,
		sessions:   sessions,
		publisher:  publisher,
		validator:  validator,
		logger:     logger,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Login exchanges credentials for a backend token and keeps it in a new session
func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*models.Session, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	auth, err := s.backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.logger.Info("Login rejected", "username", req.Username)
			return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
		}
		return nil, err
	}
	if auth.Token == "" || auth.User.ID == 0 {
		return nil, errors.New("login response is missing the token or the user")
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     auth.Token,
		User:      auth.User,
		CreatedAt: now,
		ExpiresAt: s.sessionExpiry(auth.Token, now),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("Admin logged in", "user_id", session.User.ID, "expires_at", session.ExpiresAt)
	return session, nil
}

// sessionExpiry follows the token's exp claim. The claim is read without
// verifying the signature; the backend verifies the token on every call.
func (s *authService) sessionExpiry(token string, now time.Time) time.Time {
	fallback := now.Add(s.sessionTTL)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || !exp.After(now) {
		return fallback
	}
	return exp.Time
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *authService) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// UpdateProfile changes the admin's profile and refreshes the stored user
func (s *authService) UpdateProfile(ctx context.Context, sessionID string, req *validator.ProfileUpdateRequest) (*models.User, error) {
	if errs := s.validator.ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ctx = backend.WithToken(ctx, session.Token)
	resp, err := s.backend.UpdateProfile(ctx, models.ProfileBody{
		Username:    req.Username,
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	session.User = resp.User
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Warn("Failed to refresh stored user", "user_id", session.User.ID, "error", err)
	}
	return &resp.User, nil
}

func (s *authService) ExpireSession(ctx context.Context) {
	sessionID := SessionIDFromContext(ctx)
	if sessionID == "" {
		return
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Failed to delete rejected session", "error", err)
		return
	}

	s.logger.Info("Session expired by backend", "user_id", session.User.ID)
	publishEvent(ctx, s.publisher, s.logger, events.TypeSessionExpired, events.SessionExpiredData{
		UserID:   session.User.ID,
		Username: session.User.Username,
	})
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

var ErrNotFound = errors.New("record not found")

// DraftKey is the storage key of a respondent draft
func DraftKey(surveyID uint, token string) string {
	return fmt.Sprintf("survey_%d_%s", surveyID, token)
}

// DraftRepository persists unsubmitted answers per survey and share token
type DraftRepository interface {
	// Get returns ErrNotFound when no draft exists
	Get(ctx context.Context, surveyID uint, token string) (*models.Draft, error)
	Save(ctx context.Context, draft *models.Draft) error
	// PutAnswer stores one answer without touching the rest of the draft,
	// creating the draft when needed
	PutAnswer(ctx context.Context, surveyID uint, token string, answer models.Answer) error
	RemoveAnswer(ctx context.Context, surveyID uint, token string, questionID uint) error
	Delete(ctx context.Context, surveyID uint, token string) error
}

// SessionRepository stores admin sessions until they expire
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	// Get returns ErrNotFound for unknown or expired sessions
	Get(ctx context.Context, id string) (*models.Session, error)
	// Update replaces the stored session without extending its lifetime
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// TTLUntil converts an absolute expiry into a TTL, never below one second
func TTLUntil(expiresAt time.Time, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

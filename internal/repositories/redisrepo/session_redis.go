package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
)

// SessionRedis stores sessions with a redis TTL matching their expiry
type SessionRedis struct {
	helper *cache.CacheHelper
	now    func() time.Time
}

func NewSessionRedis(helper *cache.CacheHelper) *SessionRedis {
	return &SessionRedis{helper: helper, now: time.Now}
}

func (r *SessionRedis) Create(ctx context.Context, session *models.Session) error {
	if !r.helper.Available() {
		return cache.ErrCacheNotAvailable
	}
	return r.put(ctx, session)
}

func (r *SessionRedis) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.helper.Get(ctx, id, &session); err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.Expired(r.now()) {
		cache.SafeDelete(ctx, r.helper, id)
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (r *SessionRedis) Update(ctx context.Context, session *models.Session) error {
	exists, err := r.helper.Exists(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if !exists {
		return repositories.ErrNotFound
	}
	return r.put(ctx, session)
}

func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	if err := r.helper.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRedis) put(ctx context.Context, session *models.Session) error {
	ttl := repositories.TTLUntil(session.ExpiresAt, r.now())
	if err := r.helper.Set(ctx, session.ID, session, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern and only logs failures
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys and only logs failures
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// StatsKey is the statistics cache key of a survey as seen by one admin. The
// backend decides who may read a survey, so entries are never shared between users.
func StatsKey(surveyID, userID uint) string {
	return fmt.Sprintf("survey:%d:user:%d", surveyID, userID)
}

// StatsPattern matches every admin's statistics entry of a survey
func StatsPattern(surveyID uint) string {
	return fmt.Sprintf("survey:%d:*", surveyID)
}

// PublicSurveyKey is the cache key of a survey fetched with a share token
func PublicSurveyKey(surveyID uint, token string) string {
	return fmt.Sprintf("%d:%s", surveyID, token)
}

// InvalidateSurveyCache drops everything cached for a survey: statistics and every
// public copy fetched through any share token.
func InvalidateSurveyCache(ctx context.Context, cm *CacheManager, surveyID uint) {
	SafeInvalidatePattern(ctx, cm.Stats, StatsPattern(surveyID))
	SafeInvalidatePattern(ctx, cm.PublicSurvey, fmt.Sprintf("%d:*", surveyID))
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/events"
)

// statsInvalidator drops cached statistics whenever a response arrives
type statsInvalidator struct {
	cache  *cache.CacheManager
	logger *slog.Logger
}

func (h *statsInvalidator) HandleResponseSubmitted(ctx context.Context, event *events.Event) error {
	var data events.ResponseSubmittedData
	if err := event.Decode(&data); err != nil {
		return fmt.Errorf("decode %s: %w", event.Type, err)
	}
	cache.SafeInvalidatePattern(ctx, h.cache.Stats, cache.StatsPattern(data.SurveyID))
	h.logger.Debug("Statistics cache invalidated", "survey_id", data.SurveyID)
	return nil
}

func (h *statsInvalidator) HandleSurveyPublished(ctx context.Context, event *events.Event) error {
	var data events.SurveyPublishedData
	if err := event.Decode(&data); err != nil {
		return fmt.Errorf("decode %s: %w", event.Type, err)
	}
	cache.InvalidateSurveyCache(ctx, h.cache, data.SurveyID)
	return nil
}

// Package redisrepo keeps drafts and sessions in redis through the cache helpers.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
)

type DraftRedis struct {
	helper *cache.CacheHelper
	ttl    time.Duration
}

func NewDraftRedis(helper *cache.CacheHelper, ttl time.Duration) *DraftRedis {
	if ttl <= 0 {
		ttl = cache.DraftCacheConfig.TTL
	}
	return &DraftRedis{helper: helper, ttl: ttl}
}

// A draft is a hash with one field per answered question plus updatedAtField,
// so single answers can change without rewriting the others.
const updatedAtField = "updated_at"

func answerField(questionID uint) string {
	return strconv.FormatUint(uint64(questionID), 10)
}

func (r *DraftRedis) Get(ctx context.Context, surveyID uint, token string) (*models.Draft, error) {
	fields, err := r.helper.HashGetAll(ctx, repositories.DraftKey(surveyID, token))
	if err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	draft := models.NewDraft(surveyID, token)
	for field, raw := range fields {
		if field == updatedAtField {
			draft.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
			continue
		}
		id, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			continue
		}
		var answer models.Answer
		if err := json.Unmarshal([]byte(raw), &answer); err != nil {
			return nil, fmt.Errorf("failed to decode draft answer %s: %w", field, err)
		}
		answer.QuestionID = uint(id)
		draft.Answers[answer.QuestionID] = answer
	}
	return draft, nil
}

// Save rewrites the whole draft and restarts its lifetime
func (r *DraftRedis) Save(ctx context.Context, draft *models.Draft) error {
	fields := map[string]string{updatedAtField: stamp(draft.UpdatedAt)}
	for id, answer := range draft.Answers {
		data, err := json.Marshal(answer)
		if err != nil {
			return fmt.Errorf("failed to encode draft answer: %w", err)
		}
		fields[answerField(id)] = string(data)
	}
	key := repositories.DraftKey(draft.SurveyID, draft.Token)
	if err := r.helper.HashUpdate(ctx, key, fields, nil, true, r.ttl); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// PutAnswer stores one answer, leaving the others as they are
func (r *DraftRedis) PutAnswer(ctx context.Context, surveyID uint, token string, answer models.Answer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("failed to encode draft answer: %w", err)
	}
	fields := map[string]string{
		answerField(answer.QuestionID): string(data),
		updatedAtField:                 stamp(time.Now()),
	}
	if err := r.helper.HashUpdate(ctx, repositories.DraftKey(surveyID, token), fields, nil, false, r.ttl); err != nil {
		return fmt.Errorf("failed to save draft answer: %w", err)
	}
	return nil
}

func (r *DraftRedis) RemoveAnswer(ctx context.Context, surveyID uint, token string, questionID uint) error {
	fields := map[string]string{updatedAtField: stamp(time.Now())}
	del := []string{answerField(questionID)}
	if err := r.helper.HashUpdate(ctx, repositories.DraftKey(surveyID, token), fields, del, false, r.ttl); err != nil {
		return fmt.Errorf("failed to remove draft answer: %w", err)
	}
	return nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (r *DraftRedis) Delete(ctx context.Context, surveyID uint, token string) error {
	if err := r.helper.Delete(ctx, repositories.DraftKey(surveyID, token)); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

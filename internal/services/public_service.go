package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/events"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
	"github.com/SAP-F-2025/survey-portal/internal/table"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

type publicSurveyService struct {
	backend   SurveyBackend
	drafts    repositories.DraftRepository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	surveyTTL time.Duration
}

func NewPublicSurveyService(
	backend SurveyBackend,
	drafts repositories.DraftRepository,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger *slog.Logger,
	surveyTTL time.Duration,
) PublicSurveyService {
	if surveyTTL <= 0 {
		surveyTTL = cache.PublicSurveyCacheConfig.TTL
	}
	return &publicSurveyService{
		backend:   backend,
		drafts:    drafts,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		surveyTTL: surveyTTL,
	}
}

// ===== LOADING =====

func (s *publicSurveyService) Load(ctx context.Context, surveyID uint, token string) (*SurveyView, error) {
	survey, err := s.fetchSurvey(ctx, surveyID, token)
	if err != nil {
		return nil, err
	}
	draft := s.loadDraft(ctx, surveyID, token)
	return buildView(survey, draft), nil
}

// fetchSurvey returns the survey behind a share link, cached per survey and token
func (s *publicSurveyService) fetchSurvey(ctx context.Context, surveyID uint, token string) (*models.PublicSurvey, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	key := cache.PublicSurveyKey(surveyID, token)
	var survey models.PublicSurvey
	if err := s.cache.PublicSurvey.Get(ctx, key, &survey); err != nil {
		fetched, err := s.backend.GetPublicSurvey(ctx, surveyID, token)
		if err != nil {
			s.logger.Warn("Failed to load public survey", "survey_id", surveyID, "error", err)
			return nil, publicError(err)
		}
		survey = *fetched
		if ttl := linkCacheTTL(survey.ExpiresAt, s.surveyTTL, time.Now()); ttl > 0 {
			if err := s.cache.PublicSurvey.Set(ctx, key, &survey, ttl); err != nil {
				s.logger.Warn("Failed to cache public survey", "survey_id", surveyID, "error", err)
			}
		}
	}

	survey.Questions = models.SortQuestions(survey.Questions)
	return &survey, nil
}

// linkCacheTTL caps ttl at the link's expiry. Zero means do not cache.
func linkCacheTTL(expiresAt *time.Time, ttl time.Duration, now time.Time) time.Duration {
	if expiresAt == nil {
		return ttl
	}
	return max(min(ttl, expiresAt.Sub(now)), 0)
}

// loadDraft never fails: a broken draft store only costs the respondent their
// saved progress
func (s *publicSurveyService) loadDraft(ctx context.Context, surveyID uint, token string) *models.Draft {
	draft, err := s.drafts.Get(ctx, surveyID, token)
	if err == nil {
		return draft
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		s.logger.Warn("Failed to load draft", "survey_id", surveyID, "error", err)
	}
	return models.NewDraft(surveyID, token)
}

// prefillAnswers derives the locked answers carried by the share link. Table
// questions cannot be prefilled.
func prefillAnswers(survey *models.PublicSurvey) map[uint]models.AnswerValue {
	answers := make(map[uint]models.AnswerValue)
	for _, q := range survey.Questions {
		if !isLocked(survey, q) {
			continue
		}
		value := survey.PrefillData[q.PrefillKey]
		if q.Type == models.QuestionMultiple {
			answers[q.ID] = models.ListValue([]string{value})
		} else {
			answers[q.ID] = models.TextValue(value)
		}
	}
	return answers
}

func isLocked(survey *models.PublicSurvey, q models.Question) bool {
	if q.PrefillKey == "" || q.Type == models.QuestionTable {
		return false
	}
	return survey.PrefillData[q.PrefillKey] != ""
}

// mergedAnswers overlays the draft on the prefill; draft answers win
func mergedAnswers(survey *models.PublicSurvey, draft *models.Draft) map[uint]models.AnswerValue {
	answers := prefillAnswers(survey)
	for _, q := range survey.Questions {
		if answer, ok := draft.Answers[q.ID]; ok {
			answers[q.ID] = answer.Value
		}
	}
	return answers
}

func buildView(survey *models.PublicSurvey, draft *models.Draft) *SurveyView {
	answers := mergedAnswers(survey, draft)
	view := &SurveyView{
		Survey:          survey,
		Answers:         answers,
		LockedQuestions: []uint{},
		Tables:          make(map[uint]table.State),
	}

	answered := 0
	for _, q := range survey.Questions {
		if isLocked(survey, q) {
			view.LockedQuestions = append(view.LockedQuestions, q.ID)
		}
		if !answers[q.ID].IsEmpty() {
			answered++
		}
		if q.Type == models.QuestionTable {
			rows, _ := answers[q.ID].Grid()
			if editor, err := table.NewEditor(q, rows); err == nil {
				view.Tables[q.ID] = editor.State()
			}
		}
	}

	if total := len(survey.Questions); total > 0 {
		view.Progress = int(math.Round(float64(answered) / float64(total) * 100))
	}
	return view
}

// ===== DRAFT EDITING =====

func (s *publicSurveyService) SaveAnswer(ctx context.Context, surveyID uint, token string, questionID uint, value models.AnswerValue) (*SurveyView, error) {
	survey, err := s.fetchSurvey(ctx, surveyID, token)
	if err != nil {
		return nil, err
	}
	q, ok := models.FindQuestion(survey.Questions, questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}
	if isLocked(survey, q) {
		return nil, ErrAnswerLocked
	}

	// Required-ness is only enforced on submit
	if err := validator.ValidateAnswer(value, q.Type, false); err != nil {
		return nil, &AnswersInvalidError{Failures: map[uint]error{q.ID: err}}
	}

	if q.Type == models.QuestionTable && !value.IsEmpty() {
		rows, _ := value.Grid()
		editor, err := table.NewEditor(q, rows)
		if err != nil {
			return nil, err
		}
		value = models.GridValue(editor.Rows())
	}

	if value.IsEmpty() {
		err = s.drafts.RemoveAnswer(ctx, surveyID, token, q.ID)
	} else {
		err = s.drafts.PutAnswer(ctx, surveyID, token, models.Answer{QuestionID: q.ID, Value: value})
	}
	if err != nil {
		s.logger.Error("Failed to save draft", "survey_id", surveyID, "question_id", q.ID, "error", err)
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return buildView(survey, s.loadDraft(ctx, surveyID, token)), nil
}

func (s *publicSurveyService) AddTableRow(ctx context.Context, surveyID uint, token string, questionID uint) (*table.State, error) {
	return s.editTable(ctx, surveyID, token, questionID, func(e *table.Editor) error {
		return e.AddRow()
	})
}

func (s *publicSurveyService) DeleteTableRow(ctx context.Context, surveyID uint, token string, questionID uint, row int) (*table.State, error) {
	return s.editTable(ctx, surveyID, token, questionID, func(e *table.Editor) error {
		return e.DeleteRow(row)
	})
}

func (s *publicSurveyService) SetTableCell(ctx context.Context, surveyID uint, token string, questionID uint, row, col int, value string) (*table.State, error) {
	return s.editTable(ctx, surveyID, token, questionID, func(e *table.Editor) error {
		return e.SetCell(row, col, value)
	})
}

// editTable applies one edit to a table answer and persists only that answer.
// A failed edit leaves the draft untouched.
func (s *publicSurveyService) editTable(ctx context.Context, surveyID uint, token string, questionID uint, edit func(*table.Editor) error) (*table.State, error) {
	survey, err := s.fetchSurvey(ctx, surveyID, token)
	if err != nil {
		return nil, err
	}
	q, ok := models.FindQuestion(survey.Questions, questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	draft := s.loadDraft(ctx, surveyID, token)
	var current [][]string
	if answer, ok := draft.Answers[q.ID]; ok {
		current, _ = answer.Value.Grid()
	}

	editor, err := table.NewEditor(q, current)
	if err != nil {
		return nil, err
	}
	if err := edit(editor); err != nil {
		return nil, err
	}

	answer := models.Answer{QuestionID: q.ID, Value: models.GridValue(editor.Rows())}
	if err := s.drafts.PutAnswer(ctx, surveyID, token, answer); err != nil {
		s.logger.Error("Failed to save draft", "survey_id", surveyID, "question_id", q.ID, "error", err)
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	state := editor.State()
	return &state, nil
}

func (s *publicSurveyService) Discard(ctx context.Context, surveyID uint, token string) error {
	if token == "" {
		return ErrTokenMissing
	}
	if err := s.drafts.Delete(ctx, surveyID, token); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	return nil
}

// ===== SUBMISSION =====

// Submit validates every answer locally and only then sends the response. The
// draft survives a failed submission.
func (s *publicSurveyService) Submit(ctx context.Context, surveyID uint, token string) error {
	survey, err := s.fetchSurvey(ctx, surveyID, token)
	if err != nil {
		return err
	}

	draft := s.loadDraft(ctx, surveyID, token)
	answers := mergedAnswers(survey, draft)
	if failures := validator.ValidateAnswers(answers, survey.Questions); len(failures) > 0 {
		return &AnswersInvalidError{Failures: failures}
	}

	payload := make([]models.Answer, 0, len(answers))
	for _, q := range survey.Questions {
		if value := answers[q.ID]; !value.IsEmpty() {
			payload = append(payload, models.Answer{QuestionID: q.ID, Value: value})
		}
	}

	if err := s.backend.SubmitResponse(ctx, token, payload); err != nil {
		s.logger.Warn("Response submission failed", "survey_id", surveyID, "error", err)
		return publicError(err)
	}
	s.logger.Info("Response submitted", "survey_id", surveyID, "answers", len(payload))

	if err := s.drafts.Delete(ctx, surveyID, token); err != nil {
		s.logger.Error("Failed to clear draft after submission", "survey_id", surveyID, "error", err)
	}
	cache.SafeDelete(ctx, s.cache.PublicSurvey, cache.PublicSurveyKey(surveyID, token))
	s.publish(ctx, events.TypeResponseSubmitted, events.ResponseSubmittedData{
		SurveyID:    surveyID,
		AnswerCount: len(payload),
	})
	return nil
}

func (s *publicSurveyService) publish(ctx context.Context, eventType string, data interface{}) {
	publishEvent(ctx, s.publisher, s.logger, eventType, data)
}

// publishEvent publishes and only logs failures; events never fail a request
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	event, err := events.NewEvent(eventType, data)
	if err != nil {
		logger.Error("Failed to build event", "type", eventType, "error", err)
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish event", "type", eventType, "error", err)
	}
}

// publicError classifies link failures first and missing surveys second
func publicError(err error) error {
	if kind := backend.ClassifyLinkError(err); kind != backend.LinkUnknown && kind != backend.LinkOK {
		return linkError(err)
	}
	return notFound(err, ErrSurveyNotFound)
}

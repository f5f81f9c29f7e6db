package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

type questionService struct {
	backend   SurveyBackend
	cache     *cache.CacheManager
	validator *validator.Validator
	logger    *slog.Logger
}

func NewQuestionService(backend SurveyBackend, cacheManager *cache.CacheManager, validator *validator.Validator, logger *slog.Logger) QuestionService {
	return &questionService{
		backend:   backend,
		cache:     cacheManager,
		validator: validator,
		logger:    logger,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create adds a question. Without an explicit order it goes after the
// survey's existing questions.
func (s *questionService) Create(ctx context.Context, req *validator.QuestionCreateRequest) (*models.Question, error) {
	s.logger.Info("Creating question", "survey_id", req.SurveyID, "type", req.Type)

	// Validate request with business rules
	if errs := s.validator.ValidateQuestionCreate(req); len(errs) > 0 {
		return nil, errs
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		survey, err := s.backend.GetSurvey(ctx, req.SurveyID)
		if err != nil {
			return nil, notFound(err, ErrSurveyNotFound)
		}
		order = len(survey.Questions)
	}

	question, err := s.backend.CreateQuestion(ctx, models.QuestionBody{
		SurveyID:    req.SurveyID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Required:    req.Required,
		Order:       order,
		Config:      req.Config,
		PrefillKey:  req.PrefillKey,
	})
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	cache.InvalidateSurveyCache(ctx, s.cache, req.SurveyID)

	s.logger.Info("Question created successfully", "question_id", question.ID)
	return question, nil
}

// Update sends only the changed fields. The current question is looked up in
// its survey so a type change can be checked against the resulting config.
func (s *questionService) Update(ctx context.Context, id uint, req *validator.QuestionUpdateRequest) (*models.Question, error) {
	survey, err := s.backend.GetSurvey(ctx, req.SurveyID)
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	existing, ok := models.FindQuestion(survey.Questions, id)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	if errs := s.validator.ValidateQuestionUpdate(req, &existing); len(errs) > 0 {
		return nil, errs
	}

	question, err := s.backend.UpdateQuestion(ctx, id, models.QuestionPatch{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Required:    req.Required,
		Order:       req.Order,
		Config:      req.Config,
		PrefillKey:  req.PrefillKey,
	})
	if err != nil {
		return nil, notFound(err, ErrQuestionNotFound)
	}
	cache.InvalidateSurveyCache(ctx, s.cache, req.SurveyID)

	s.logger.Info("Question updated successfully", "question_id", id)
	return question, nil
}

// Delete removes a question of the given survey and drops the survey's cached
// copies so respondents stop seeing it
func (s *questionService) Delete(ctx context.Context, surveyID, id uint) error {
	survey, err := s.backend.GetSurvey(ctx, surveyID)
	if err != nil {
		return notFound(err, ErrSurveyNotFound)
	}
	if _, ok := models.FindQuestion(survey.Questions, id); !ok {
		return ErrQuestionNotFound
	}

	if err := s.backend.DeleteQuestion(ctx, id); err != nil {
		return notFound(err, ErrQuestionNotFound)
	}
	cache.InvalidateSurveyCache(ctx, s.cache, surveyID)

	s.logger.Info("Question deleted", "survey_id", surveyID, "question_id", id)
	return nil
}

// Reorder replaces the order of all questions of a survey at once
func (s *questionService) Reorder(ctx context.Context, surveyID uint, req *validator.ReorderRequest) error {
	survey, err := s.backend.GetSurvey(ctx, surveyID)
	if err != nil {
		return notFound(err, ErrSurveyNotFound)
	}
	if errs := s.validator.ValidateReorder(req, survey.Questions); len(errs) > 0 {
		return errs
	}

	if err := s.backend.ReorderQuestions(ctx, surveyID, req.QuestionIDs); err != nil {
		return fmt.Errorf("failed to reorder questions: %w", err)
	}
	cache.InvalidateSurveyCache(ctx, s.cache, surveyID)
	return nil
}

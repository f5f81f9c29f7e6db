package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/events"
	"github.com/SAP-F-2025/survey-portal/internal/export"
	"github.com/SAP-F-2025/survey-portal/internal/i18n"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

// Pagination defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultExpiryHours is the share link lifetime when none is chosen
const DefaultExpiryHours = 1

type surveyService struct {
	backend   SurveyBackend
	cache     *cache.CacheManager
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	statsTTL  time.Duration
	now       func() time.Time
}

func NewSurveyService(
	backend SurveyBackend,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
	statsTTL time.Duration,
) SurveyService {
	if statsTTL <= 0 {
		statsTTL = cache.StatsCacheConfig.TTL
	}
	return &surveyService{
		backend:   backend,
		cache:     cacheManager,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		statsTTL:  statsTTL,
		now:       time.Now,
	}
}

// NormalizePage clamps paging input: page starts at 1, page size defaults to 20
// and never exceeds 100
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// ===== CORE CRUD OPERATIONS =====

func (s *surveyService) List(ctx context.Context, page, pageSize int) ([]models.Survey, *models.PaginationMeta, error) {
	page, pageSize = NormalizePage(page, pageSize)
	surveys, meta, err := s.backend.ListSurveys(ctx, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	if meta == nil {
		meta = &models.PaginationMeta{Page: page, PageSize: pageSize, Total: len(surveys)}
	}
	return surveys, meta, nil
}

func (s *surveyService) Get(ctx context.Context, id uint) (*models.Survey, error) {
	survey, err := s.backend.GetSurvey(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	survey.Questions = models.SortQuestions(survey.Questions)
	return survey, nil
}

func (s *surveyService) Create(ctx context.Context, req *validator.SurveyRequest) (*models.Survey, error) {
	// Validate request with business rules
	if errs := s.validator.ValidateSurvey(req); len(errs) > 0 {
		return nil, errs
	}

	survey, err := s.backend.CreateSurvey(ctx, models.SurveyBody{Title: req.Title, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}
	s.logger.Info("Survey created", "survey_id", survey.ID)
	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id uint, req *validator.SurveyRequest) (*models.Survey, error) {
	if errs := s.validator.ValidateSurvey(req); len(errs) > 0 {
		return nil, errs
	}

	survey, err := s.backend.UpdateSurvey(ctx, id, models.SurveyBody{Title: req.Title, Description: req.Description})
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	cache.InvalidateSurveyCache(ctx, s.cache, id)
	return survey, nil
}

func (s *surveyService) Delete(ctx context.Context, id uint) error {
	if err := s.backend.DeleteSurvey(ctx, id); err != nil {
		return notFound(err, ErrSurveyNotFound)
	}
	cache.InvalidateSurveyCache(ctx, s.cache, id)
	s.logger.Info("Survey deleted", "survey_id", id)
	return nil
}

// ===== LIFECYCLE =====

// Publish is one way: a survey without questions or one already published is
// rejected before the publish call is made
func (s *surveyService) Publish(ctx context.Context, id uint) (*models.Survey, error) {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.IsPublished() {
		return nil, ErrAlreadyPublished
	}
	if len(survey.Questions) == 0 {
		return nil, ErrSurveyEmpty
	}

	if err := s.backend.PublishSurvey(ctx, id); err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	survey.Status = models.StatusPublished
	cache.InvalidateSurveyCache(ctx, s.cache, id)

	s.logger.Info("Survey published", "survey_id", id, "questions", len(survey.Questions))
	publishEvent(ctx, s.publisher, s.logger, events.TypeSurveyPublished, events.SurveyPublishedData{
		SurveyID:      id,
		Title:         survey.Title,
		QuestionCount: len(survey.Questions),
	})
	return survey, nil
}

// Share creates a share link. Prefill values are kept only for keys some
// question of the survey declares and only when they are not blank.
func (s *surveyService) Share(ctx context.Context, id uint, req *validator.ShareRequest) (*models.ShareLink, error) {
	if errs := s.validator.ValidateShare(req); len(errs) > 0 {
		return nil, errs
	}

	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.IsPublished() {
		return nil, ErrNotPublished
	}

	hours := req.ExpiresInHours
	if hours == 0 {
		hours = DefaultExpiryHours
	}
	expiresAt := s.now().UTC().Add(time.Duration(hours) * time.Hour)

	body := models.ShareBody{
		PrefillData: filterPrefill(survey.Questions, req.PrefillData),
		ExpiresAt:   &expiresAt,
	}
	link, err := s.backend.ShareSurvey(ctx, id, body)
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	s.logger.Info("Share link created", "survey_id", id, "expires_in_hours", hours, "prefill_keys", len(body.PrefillData))
	return link, nil
}

func filterPrefill(questions []models.Question, data map[string]string) map[string]string {
	keys := make(map[string]bool)
	for _, q := range questions {
		if key := strings.TrimSpace(q.PrefillKey); key != "" {
			keys[key] = true
		}
	}

	var out map[string]string
	for key, value := range data {
		value = strings.TrimSpace(value)
		if !keys[key] || value == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = value
	}
	return out
}

// ===== RESPONSES =====

func (s *surveyService) Responses(ctx context.Context, id uint, page, pageSize int) (*ResponsePage, error) {
	page, pageSize = NormalizePage(page, pageSize)
	responses, meta, err := s.backend.ListResponses(ctx, id, page, pageSize)
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	if responses == nil {
		responses = []models.Response{}
	}

	result := &ResponsePage{
		Responses: responses,
		Meta:      models.PaginationMeta{Page: page, PageSize: pageSize},
		HasNext:   len(responses) == pageSize,
	}
	if meta != nil {
		result.Meta = *meta
		if meta.Total > 0 {
			result.HasNext = page*pageSize < meta.Total
		}
	}
	return result, nil
}

func (s *surveyService) ResponseTable(ctx context.Context, id uint, page, pageSize int, locale string) (*ResponseTablePage, error) {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.Responses(ctx, id, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ResponseTablePage{
		Table:   export.BuildResponseTable(survey.Questions, responses.Responses, locale),
		Meta:    responses.Meta,
		HasNext: responses.HasNext,
	}, nil
}

// ResponseSheet renders one page of formatted responses as an xlsx workbook
func (s *surveyService) ResponseSheet(ctx context.Context, id uint, page, pageSize int, locale string) (*models.ExportFile, error) {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.Responses(ctx, id, page, pageSize)
	if err != nil {
		return nil, err
	}

	table := export.BuildResponseTable(survey.Questions, responses.Responses, locale)
	data, err := export.WriteSheet(table, i18n.T(locale, "label.sheet"))
	if err != nil {
		return nil, fmt.Errorf("failed to build response sheet: %w", err)
	}
	return &models.ExportFile{
		Filename:    export.Filename(survey.Title, export.FormatExcel, s.now()),
		ContentType: export.SheetContentType,
		Data:        data,
	}, nil
}

// Statistics are cached per admin until the next submission for the survey.
// Requests without a known user always go to the backend.
func (s *surveyService) Statistics(ctx context.Context, id uint) (*models.Statistics, error) {
	userID := UserIDFromContext(ctx)
	if userID == 0 {
		stats, err := s.backend.GetStatistics(ctx, id)
		if err != nil {
			return nil, notFound(err, ErrSurveyNotFound)
		}
		return stats, nil
	}

	var stats models.Statistics
	err := s.cache.Stats.CacheOrExecute(ctx, cache.StatsKey(id, userID), &stats, s.statsTTL, func() (interface{}, error) {
		return s.backend.GetStatistics(ctx, id)
	})
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	return &stats, nil
}

func (s *surveyService) Export(ctx context.Context, id uint, format string) (*models.ExportFile, error) {
	if errs := s.validator.ValidateExportFormat(format); len(errs) > 0 {
		return nil, errs
	}

	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, contentType, err := s.backend.ExportResponses(ctx, id, format)
	if err != nil {
		return nil, notFound(err, ErrSurveyNotFound)
	}
	if contentType == "" || strings.HasPrefix(contentType, "application/json") {
		contentType = export.ContentType(format)
	}

	s.logger.Info("Responses exported", "survey_id", id, "format", format, "bytes", len(data))
	return &models.ExportFile{
		Filename:    export.Filename(survey.Title, format, s.now()),
		ContentType: contentType,
		Data:        data,
	}, nil
}

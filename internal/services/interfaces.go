package services

import (
	"context"

	"github.com/SAP-F-2025/survey-portal/internal/export"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/table"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

// SurveyBackend is the part of the backend client the services call.
// *backend.Client satisfies it.
type SurveyBackend interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	UpdateProfile(ctx context.Context, body models.ProfileBody) (*models.ProfileUpdateResponse, error)

	ListSurveys(ctx context.Context, page, pageSize int) ([]models.Survey, *models.PaginationMeta, error)
	GetSurvey(ctx context.Context, id uint) (*models.Survey, error)
	CreateSurvey(ctx context.Context, body models.SurveyBody) (*models.Survey, error)
	UpdateSurvey(ctx context.Context, id uint, body models.SurveyBody) (*models.Survey, error)
	DeleteSurvey(ctx context.Context, id uint) error
	PublishSurvey(ctx context.Context, id uint) error
	ShareSurvey(ctx context.Context, id uint, body models.ShareBody) (*models.ShareLink, error)
	ListResponses(ctx context.Context, surveyID uint, page, pageSize int) ([]models.Response, *models.PaginationMeta, error)
	GetStatistics(ctx context.Context, surveyID uint) (*models.Statistics, error)
	ExportResponses(ctx context.Context, surveyID uint, format string) ([]byte, string, error)

	CreateQuestion(ctx context.Context, body models.QuestionBody) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, patch models.QuestionPatch) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
	ReorderQuestions(ctx context.Context, surveyID uint, questionIDs []uint) error

	GetPublicSurvey(ctx context.Context, surveyID uint, token string) (*models.PublicSurvey, error)
	SubmitResponse(ctx context.Context, token string, answers []models.Answer) error
}

// ===== PUBLIC =====

// SurveyView is everything a respondent needs to render and fill a survey
type SurveyView struct {
	Survey          *models.PublicSurvey        `json:"survey"`
	Answers         map[uint]models.AnswerValue `json:"answers"`
	LockedQuestions []uint                      `json:"locked_questions"`
	Tables          map[uint]table.State        `json:"tables"`
	Progress        int                         `json:"progress"`
}

type PublicSurveyService interface {
	Load(ctx context.Context, surveyID uint, token string) (*SurveyView, error)
	SaveAnswer(ctx context.Context, surveyID uint, token string, questionID uint, value models.AnswerValue) (*SurveyView, error)
	AddTableRow(ctx context.Context, surveyID uint, token string, questionID uint) (*table.State, error)
	DeleteTableRow(ctx context.Context, surveyID uint, token string, questionID uint, row int) (*table.State, error)
	SetTableCell(ctx context.Context, surveyID uint, token string, questionID uint, row, col int, value string) (*table.State, error)
	Discard(ctx context.Context, surveyID uint, token string) error
	Submit(ctx context.Context, surveyID uint, token string) error
}

// ===== ADMIN =====

// ResponsePage is one page of responses
type ResponsePage struct {
	Responses []models.Response     `json:"responses"`
	Meta      models.PaginationMeta `json:"meta"`
	HasNext   bool                  `json:"has_next"`
}

// ResponseTablePage is one page of responses formatted for display
type ResponseTablePage struct {
	Table   export.Table          `json:"table"`
	Meta    models.PaginationMeta `json:"meta"`
	HasNext bool                  `json:"has_next"`
}

type SurveyService interface {
	List(ctx context.Context, page, pageSize int) ([]models.Survey, *models.PaginationMeta, error)
	Get(ctx context.Context, id uint) (*models.Survey, error)
	Create(ctx context.Context, req *validator.SurveyRequest) (*models.Survey, error)
	Update(ctx context.Context, id uint, req *validator.SurveyRequest) (*models.Survey, error)
	Delete(ctx context.Context, id uint) error
	Publish(ctx context.Context, id uint) (*models.Survey, error)
	Share(ctx context.Context, id uint, req *validator.ShareRequest) (*models.ShareLink, error)

	Responses(ctx context.Context, id uint, page, pageSize int) (*ResponsePage, error)
	ResponseTable(ctx context.Context, id uint, page, pageSize int, locale string) (*ResponseTablePage, error)
	ResponseSheet(ctx context.Context, id uint, page, pageSize int, locale string) (*models.ExportFile, error)
	Statistics(ctx context.Context, id uint) (*models.Statistics, error)
	Export(ctx context.Context, id uint, format string) (*models.ExportFile, error)
}

type QuestionService interface {
	Create(ctx context.Context, req *validator.QuestionCreateRequest) (*models.Question, error)
	Update(ctx context.Context, id uint, req *validator.QuestionUpdateRequest) (*models.Question, error)
	Delete(ctx context.Context, surveyID, id uint) error
	Reorder(ctx context.Context, surveyID uint, req *validator.ReorderRequest) error
}

type AuthService interface {
	Login(ctx context.Context, req *validator.LoginRequest) (*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateProfile(ctx context.Context, sessionID string, req *validator.ProfileUpdateRequest) (*models.User, error)
	// ExpireSession drops the session attached to ctx after the backend rejected its token
	ExpireSession(ctx context.Context)
}

// ServiceManager owns the service instances and their lifecycle
type ServiceManager interface {
	Public() PublicSurveyService
	Survey() SurveyService
	Question() QuestionService
	Auth() AuthService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

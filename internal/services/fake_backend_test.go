package services

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/models"
)

// fakeBackend serves canned data and records the calls it receives
type fakeBackend struct {
	mu sync.Mutex

	surveys      map[uint]*models.Survey
	public       map[uint]*models.PublicSurvey
	publicErr    error
	submitErr    error
	loginResp    *models.AuthResponse
	loginErr     error
	profileResp  *models.ProfileUpdateResponse
	responses    []models.Response
	responseMeta *models.PaginationMeta
	stats        *models.Statistics
	refuseToken  string
	exportData   []byte
	exportType   string

	calls        []string
	submitted    []models.Answer
	shareBody    models.ShareBody
	questionBody models.QuestionBody
	reordered    []uint
	nextID       uint
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		surveys: make(map[uint]*models.Survey),
		public:  make(map[uint]*models.PublicSurvey),
		nextID:  100,
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func notFoundErr() error {
	return &backend.APIError{Status: http.StatusNotFound, Code: "HTTP_404", Message: "not found"}
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	f.record("login")
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, body models.ProfileBody) (*models.ProfileUpdateResponse, error) {
	f.record("update_profile")
	return f.profileResp, nil
}

func (f *fakeBackend) ListSurveys(ctx context.Context, page, pageSize int) ([]models.Survey, *models.PaginationMeta, error) {
	f.record("list_surveys")
	var out []models.Survey
	for _, s := range f.surveys {
		out = append(out, *s)
	}
	return out, nil, nil
}

func (f *fakeBackend) GetSurvey(ctx context.Context, id uint) (*models.Survey, error) {
	f.record("get_survey")
	s, ok := f.surveys[id]
	if !ok {
		return nil, notFoundErr()
	}
	cp := *s
	cp.Questions = append([]models.Question(nil), s.Questions...)
	return &cp, nil
}

func (f *fakeBackend) CreateSurvey(ctx context.Context, body models.SurveyBody) (*models.Survey, error) {
	f.record("create_survey")
	f.nextID++
	s := &models.Survey{ID: f.nextID, Title: body.Title, Description: body.Description, Status: models.StatusDraft}
	f.surveys[s.ID] = s
	return s, nil
}

func (f *fakeBackend) UpdateSurvey(ctx context.Context, id uint, body models.SurveyBody) (*models.Survey, error) {
	f.record("update_survey")
	s, ok := f.surveys[id]
	if !ok {
		return nil, notFoundErr()
	}
	s.Title, s.Description = body.Title, body.Description
	return s, nil
}

func (f *fakeBackend) DeleteSurvey(ctx context.Context, id uint) error {
	f.record("delete_survey")
	if _, ok := f.surveys[id]; !ok {
		return notFoundErr()
	}
	delete(f.surveys, id)
	return nil
}

func (f *fakeBackend) PublishSurvey(ctx context.Context, id uint) error {
	f.record("publish_survey")
	f.surveys[id].Status = models.StatusPublished
	return nil
}

func (f *fakeBackend) ShareSurvey(ctx context.Context, id uint, body models.ShareBody) (*models.ShareLink, error) {
	f.record("share_survey")
	f.shareBody = body
	return &models.ShareLink{URL: "https://surveys.example/s/1?token=t", Token: "t", ExpiresAt: *body.ExpiresAt}, nil
}

func (f *fakeBackend) ListResponses(ctx context.Context, surveyID uint, page, pageSize int) ([]models.Response, *models.PaginationMeta, error) {
	f.record("list_responses")
	return f.responses, f.responseMeta, nil
}

func (f *fakeBackend) GetStatistics(ctx context.Context, surveyID uint) (*models.Statistics, error) {
	f.record("get_statistics")
	if f.refuseToken != "" && backend.TokenFromContext(ctx) == f.refuseToken {
		return nil, &backend.APIError{Status: http.StatusForbidden, Code: "HTTP_403", Message: "forbidden"}
	}
	if f.stats == nil {
		return nil, notFoundErr()
	}
	return f.stats, nil
}

func (f *fakeBackend) ExportResponses(ctx context.Context, surveyID uint, format string) ([]byte, string, error) {
	f.record("export")
	return f.exportData, f.exportType, nil
}

func (f *fakeBackend) CreateQuestion(ctx context.Context, body models.QuestionBody) (*models.Question, error) {
	f.record("create_question")
	f.questionBody = body
	f.nextID++
	return &models.Question{ID: f.nextID, SurveyID: body.SurveyID, Type: body.Type, Title: body.Title, Order: body.Order, Config: body.Config}, nil
}

func (f *fakeBackend) UpdateQuestion(ctx context.Context, id uint, patch models.QuestionPatch) (*models.Question, error) {
	f.record("update_question")
	q := &models.Question{ID: id}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Config != nil {
		q.Config = *patch.Config
	}
	return q, nil
}

func (f *fakeBackend) DeleteQuestion(ctx context.Context, id uint) error {
	f.record("delete_question")
	return nil
}

func (f *fakeBackend) ReorderQuestions(ctx context.Context, surveyID uint, questionIDs []uint) error {
	f.record("reorder")
	f.reordered = questionIDs
	return nil
}

func (f *fakeBackend) GetPublicSurvey(ctx context.Context, surveyID uint, token string) (*models.PublicSurvey, error) {
	f.record("get_public_survey")
	if f.publicErr != nil {
		return nil, f.publicErr
	}
	s, ok := f.public[surveyID]
	if !ok {
		return nil, notFoundErr()
	}
	return s, nil
}

func (f *fakeBackend) SubmitResponse(ctx context.Context, token string, answers []models.Answer) error {
	f.record("submit")
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = answers
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

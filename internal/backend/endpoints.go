package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

// ===== AUTH =====

func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   loginPath,
		body:   models.LoginBody{Username: username, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, body models.ProfileBody) (*models.ProfileUpdateResponse, error) {
	var out models.ProfileUpdateResponse
	if _, err := c.do(ctx, request{method: http.MethodPut, path: "/auth/profile", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ===== SURVEYS =====

func pageQuery(page, pageSize int) url.Values {
	return url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
}

func (c *Client) ListSurveys(ctx context.Context, page, pageSize int) ([]models.Survey, *models.PaginationMeta, error) {
	var out []models.Survey
	meta, err := c.do(ctx, request{method: http.MethodGet, path: "/surveys", query: pageQuery(page, pageSize)}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

func (c *Client) GetSurvey(ctx context.Context, id uint) (*models.Survey, error) {
	var out models.Survey
	if _, err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/surveys/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSurvey(ctx context.Context, body models.SurveyBody) (*models.Survey, error) {
	var out models.Survey
	if _, err := c.do(ctx, request{method: http.MethodPost, path: "/surveys", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSurvey(ctx context.Context, id uint, body models.SurveyBody) (*models.Survey, error) {
	var out models.Survey
	if _, err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/surveys/%d", id), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSurvey(ctx context.Context, id uint) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/surveys/%d", id)}, nil)
	return err
}

func (c *Client) PublishSurvey(ctx context.Context, id uint) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/surveys/%d/publish", id)}, nil)
	return err
}

func (c *Client) ShareSurvey(ctx context.Context, id uint, body models.ShareBody) (*models.ShareLink, error) {
	var out models.ShareLink
	if _, err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/surveys/%d/share", id), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListResponses(ctx context.Context, surveyID uint, page, pageSize int) ([]models.Response, *models.PaginationMeta, error) {
	var out []models.Response
	meta, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/surveys/%d/responses", surveyID),
		query:  pageQuery(page, pageSize),
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

func (c *Client) GetStatistics(ctx context.Context, surveyID uint) (*models.Statistics, error) {
	var out models.Statistics
	if _, err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/surveys/%d/statistics", surveyID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportResponses downloads the backend export; format is csv or excel
func (c *Client) ExportResponses(ctx context.Context, surveyID uint, format string) ([]byte, string, error) {
	return c.doRaw(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/surveys/%d/export", surveyID),
		query:  url.Values{"format": {format}},
	})
}

// ===== QUESTIONS =====

func (c *Client) CreateQuestion(ctx context.Context, body models.QuestionBody) (*models.Question, error) {
	var out models.Question
	if _, err := c.do(ctx, request{method: http.MethodPost, path: "/questions", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id uint, patch models.QuestionPatch) (*models.Question, error) {
	var out models.Question
	if _, err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/questions/%d", id), body: patch}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id uint) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/questions/%d", id)}, nil)
	return err
}

func (c *Client) ReorderQuestions(ctx context.Context, surveyID uint, questionIDs []uint) error {
	_, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/surveys/%d/questions/reorder", surveyID),
		body:   models.ReorderBody{QuestionIDs: questionIDs},
	}, nil)
	return err
}

// ===== PUBLIC =====

func (c *Client) GetPublicSurvey(ctx context.Context, surveyID uint, token string) (*models.PublicSurvey, error) {
	var out models.PublicSurvey
	_, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/public/surveys/%d", surveyID),
		query:  url.Values{"token": {token}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitResponse(ctx context.Context, token string, answers []models.Answer) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/public/responses",
		body:   models.SubmitBody{Token: token, Answers: answers},
	}, nil)
	return err
}

package models

import "time"

type SurveyStatus string

const (
	StatusDraft     SurveyStatus = "draft"
	StatusPublished SurveyStatus = "published"
)

type Survey struct {
	ID          uint         `json:"id"`
	UserID      uint         `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      SurveyStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Questions   []Question   `json:"questions,omitempty"`
}

func (s *Survey) IsPublished() bool {
	return s.Status == StatusPublished
}

// PublicSurvey is the respondent view of a survey fetched with a share token
type PublicSurvey struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []Question        `json:"questions"`
	PrefillData map[string]string `json:"prefill_data"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

type ShareLink struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type QuestionStatistics struct {
	QuestionID    uint           `json:"question_id"`
	QuestionTitle string         `json:"question_title"`
	QuestionType  QuestionType   `json:"question_type"`
	ResponseCount int            `json:"response_count"`
	ResponseRate  float64        `json:"response_rate"`
	OptionCounts  map[string]int `json:"option_counts,omitempty"`
}

type Statistics struct {
	SurveyID           uint                 `json:"survey_id"`
	TotalResponses     int                  `json:"total_responses"`
	CompletionRate     float64              `json:"completion_rate"`
	QuestionStatistics []QuestionStatistics `json:"question_statistics,omitempty"`
}

type PaginationMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

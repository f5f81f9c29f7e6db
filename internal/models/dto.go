package models

import "time"

// APIErrorBody is the error object of a failed backend call
type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SurveyBody struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ShareBody struct {
	PrefillData map[string]string `json:"prefill_data,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

type ReorderBody struct {
	QuestionIDs []uint `json:"question_ids"`
}

// QuestionBody is sent when creating a question; every field is required by the backend
type QuestionBody struct {
	SurveyID    uint           `json:"survey_id"`
	Type        QuestionType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Required    bool           `json:"required"`
	Order       int            `json:"order"`
	Config      QuestionConfig `json:"config"`
	PrefillKey  string         `json:"prefill_key"`
}

// QuestionPatch carries a partial question update
type QuestionPatch struct {
	Type        *QuestionType   `json:"type,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Required    *bool           `json:"required,omitempty"`
	Order       *int            `json:"order,omitempty"`
	Config      *QuestionConfig `json:"config,omitempty"`
	PrefillKey  *string         `json:"prefill_key,omitempty"`
}

type ProfileBody struct {
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

type SubmitBody struct {
	Token   string   `json:"token"`
	Answers []Answer `json:"answers"`
}

// ExportFile is a downloaded export with the name it should be saved under
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

package validator

import (
	"github.com/SAP-F-2025/survey-portal/internal/models"
)

// LoginRequest represents the admin login form
type LoginRequest struct {
	Username string `json:"username" validate:"required,not_blank"`
	Password string `json:"password" validate:"required"`
}

// SurveyRequest is used for both creating and updating surveys
type SurveyRequest struct {
	Title       string `json:"title" validate:"required,survey_title"`
	Description string `json:"description" validate:"survey_description"`
}

// QuestionCreateRequest represents the request structure for creating questions
type QuestionCreateRequest struct {
	SurveyID    uint                  `json:"survey_id" validate:"required"`
	Type        models.QuestionType   `json:"type" validate:"required,question_type"`
	Title       string                `json:"title" validate:"required,question_title"`
	Description string                `json:"description" validate:"question_description"`
	Required    bool                  `json:"required"`
	Order       *int                  `json:"order" validate:"omitempty,min=0"`
	Config      models.QuestionConfig `json:"config"`
	PrefillKey  string                `json:"prefill_key" validate:"prefill_key"`
}

// QuestionUpdateRequest represents a partial question update. SurveyID locates
// the question being changed.
type QuestionUpdateRequest struct {
	SurveyID    uint                   `json:"survey_id" validate:"required"`
	Type        *models.QuestionType   `json:"type" validate:"omitempty,question_type"`
	Title       *string                `json:"title" validate:"omitempty,question_title"`
	Description *string                `json:"description" validate:"omitempty,question_description"`
	Required    *bool                  `json:"required"`
	Order       *int                   `json:"order" validate:"omitempty,min=0"`
	Config      *models.QuestionConfig `json:"config"`
	PrefillKey  *string                `json:"prefill_key" validate:"omitempty,prefill_key"`
}

// ReorderRequest carries the full new order of a survey's questions
type ReorderRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1,unique"`
}

// ProfileUpdateRequest only sends the fields that were filled in
type ProfileUpdateRequest struct {
	Username    string `json:"username,omitempty" validate:"omitempty,max=50"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// ShareRequest asks for a new share link
type ShareRequest struct {
	PrefillData    map[string]string `json:"prefill_data"`
	ExpiresInHours int               `json:"expires_in_hours" validate:"omitempty,expiry_preset"`
}

// AnswerRequest stores one answer in a respondent's draft
type AnswerRequest struct {
	Value models.AnswerValue `json:"value"`
}

// CellRequest sets a single table cell
type CellRequest struct {
	Value string `json:"value"`
}

package validator

import (
	"fmt"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

// Answer error codes
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeUnknownType   = "UNKNOWN_TYPE"
	CodeTooFewRows    = "TOO_FEW_ROWS"
	CodeTooManyRows   = "TOO_MANY_ROWS"
)

// AnswerError explains why an answer was rejected. Limit carries the row bound
// for the row count codes.
type AnswerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Limit   int    `json:"limit,omitempty"`
}

func (e *AnswerError) Error() string {
	return e.Message
}

var (
	errRequired      = &AnswerError{Code: CodeRequired, Message: "required field"}
	errInvalidFormat = &AnswerError{Code: CodeInvalidFormat, Message: "invalid answer format"}
	errUnknownType   = &AnswerError{Code: CodeUnknownType, Message: "unknown question type"}
)

// ValidateAnswer checks one answer value against its question type. An absent
// value is only an error when the question is required or its type is unknown.
func ValidateAnswer(value models.AnswerValue, qType models.QuestionType, required bool) error {
	if !qType.IsValid() {
		return errUnknownType
	}
	if value.IsEmpty() {
		if required {
			return errRequired
		}
		if value.Kind() == models.ValueAbsent {
			return nil
		}
	}

	switch qType {
	case models.QuestionText, models.QuestionSingle:
		if _, ok := value.Text(); !ok {
			return errInvalidFormat
		}
	case models.QuestionMultiple:
		if _, ok := value.List(); !ok {
			return errInvalidFormat
		}
	case models.QuestionTable:
		if _, ok := value.Grid(); !ok {
			return errInvalidFormat
		}
	default:
		return errUnknownType
	}
	return nil
}

// ValidateTableRowCount checks a row count against the table bounds. A negative
// max means unbounded.
func ValidateTableRowCount(rows, minRows, maxRows int) error {
	if rows < minRows {
		return &AnswerError{
			Code:    CodeTooFewRows,
			Message: fmt.Sprintf("at least %d rows required", minRows),
			Limit:   minRows,
		}
	}
	if maxRows >= 0 && rows > maxRows {
		return &AnswerError{
			Code:    CodeTooManyRows,
			Message: fmt.Sprintf("at most %d rows allowed", maxRows),
			Limit:   maxRows,
		}
	}
	return nil
}

// ValidateAnswers validates every question of a survey against the given answers
// and returns the failures keyed by question id. An empty map means valid.
func ValidateAnswers(answers map[uint]models.AnswerValue, questions []models.Question) map[uint]error {
	failures := make(map[uint]error)
	for _, q := range questions {
		value := answers[q.ID]
		if err := ValidateAnswer(value, q.Type, q.Required); err != nil {
			failures[q.ID] = err
			continue
		}
		if q.Type != models.QuestionTable || value.IsEmpty() {
			continue
		}
		rows, _ := value.Grid()
		minRows, maxRows := q.Config.RowBounds()
		if err := ValidateTableRowCount(len(rows), minRows, maxRows); err != nil {
			failures[q.ID] = err
		}
	}
	return failures
}

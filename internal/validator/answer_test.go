package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

func decodeValue(t *testing.T, raw string) models.AnswerValue {
	t.Helper()
	var v models.AnswerValue
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Failed to decode %s: %v", raw, err)
	}
	return v
}

func answerCode(err error) string {
	var ae *AnswerError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		qType    models.QuestionType
		required bool
		wantCode string
	}{
		{name: "required text answered", raw: `"hello"`, qType: models.QuestionText, required: true},
		{name: "required text empty", raw: `""`, qType: models.QuestionText, required: true, wantCode: CodeRequired},
		{name: "required text absent", raw: `null`, qType: models.QuestionText, required: true, wantCode: CodeRequired},
		{name: "optional text absent", raw: `null`, qType: models.QuestionText},
		{name: "optional text empty", raw: `""`, qType: models.QuestionText},
		{name: "single given list", raw: `["a"]`, qType: models.QuestionSingle, wantCode: CodeInvalidFormat},
		{name: "single answered", raw: `"a"`, qType: models.QuestionSingle, required: true},
		{name: "multiple answered", raw: `["a","b"]`, qType: models.QuestionMultiple, required: true},
		{name: "multiple empty required", raw: `[]`, qType: models.QuestionMultiple, required: true, wantCode: CodeRequired},
		{name: "multiple given string", raw: `"a"`, qType: models.QuestionMultiple, wantCode: CodeInvalidFormat},
		{name: "multiple with numbers", raw: `[1,2]`, qType: models.QuestionMultiple, wantCode: CodeInvalidFormat},
		{name: "table answered", raw: `[["a","1"],["b","2"]]`, qType: models.QuestionTable, required: true},
		{name: "table all rows empty", raw: `[[],[]]`, qType: models.QuestionTable, required: true, wantCode: CodeRequired},
		{name: "table empty optional", raw: `[]`, qType: models.QuestionTable},
		{name: "table with numeric cell", raw: `[["a",1]]`, qType: models.QuestionTable, wantCode: CodeInvalidFormat},
		{name: "table given flat list", raw: `["a","b"]`, qType: models.QuestionTable, wantCode: CodeInvalidFormat},
		{name: "object value", raw: `{"a":1}`, qType: models.QuestionText, required: true, wantCode: CodeInvalidFormat},
		{name: "unknown type", raw: `"x"`, qType: models.QuestionType("rating"), wantCode: CodeUnknownType},
		{name: "unknown type absent optional", raw: `null`, qType: models.QuestionType("rating"), wantCode: CodeUnknownType},
		{name: "unknown type empty required", raw: `""`, qType: models.QuestionType("rating"), required: true, wantCode: CodeUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswer(decodeValue(t, tt.raw), tt.qType, tt.required)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Expected valid answer, got %v", err)
				}
				return
			}
			if got := answerCode(err); got != tt.wantCode {
				t.Fatalf("Expected code %s, got %q (%v)", tt.wantCode, got, err)
			}
		})
	}
}

func TestValidateAnswer_RequiredMessage(t *testing.T) {
	err := ValidateAnswer(models.GridValue([][]string{{}, {}}), models.QuestionTable, true)
	if err == nil || err.Error() != "required field" {
		t.Fatalf("Expected 'required field', got %v", err)
	}
}

func TestValidateTableRowCount(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		min, max int
		wantCode string
	}{
		{name: "within bounds", rows: 2, min: 1, max: 3},
		{name: "at min", rows: 1, min: 1, max: 3},
		{name: "at max", rows: 3, min: 1, max: 3},
		{name: "below min", rows: 0, min: 1, max: 3, wantCode: CodeTooFewRows},
		{name: "above max", rows: 4, min: 1, max: 3, wantCode: CodeTooManyRows},
		{name: "unbounded max", rows: 500, min: 1, max: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableRowCount(tt.rows, tt.min, tt.max)
			if got := answerCode(err); got != tt.wantCode {
				t.Fatalf("Expected code %q, got %q", tt.wantCode, got)
			}
		})
	}
}

func TestValidateAnswers(t *testing.T) {
	maxRows := 2
	questions := []models.Question{
		{ID: 1, Type: models.QuestionText, Required: true},
		{ID: 2, Type: models.QuestionMultiple},
		{ID: 3, Type: models.QuestionTable, Config: models.QuestionConfig{MaxRows: &maxRows}},
		{ID: 4, Type: models.QuestionSingle, Required: true},
	}
	answers := map[uint]models.AnswerValue{
		1: models.TextValue("alice"),
		2: models.TextValue("wrong shape"),
		3: models.GridValue([][]string{{"a"}, {"b"}, {"c"}}),
	}

	failures := ValidateAnswers(answers, questions)
	if len(failures) != 3 {
		t.Fatalf("Expected 3 failures, got %d: %v", len(failures), failures)
	}
	if _, ok := failures[1]; ok {
		t.Errorf("Question 1 should be valid")
	}
	if got := answerCode(failures[2]); got != CodeInvalidFormat {
		t.Errorf("Expected INVALID_FORMAT for question 2, got %q", got)
	}
	if got := answerCode(failures[3]); got != CodeTooManyRows {
		t.Errorf("Expected TOO_MANY_ROWS for question 3, got %q", got)
	}
	if got := answerCode(failures[4]); got != CodeRequired {
		t.Errorf("Expected REQUIRED for question 4, got %q", got)
	}
}

func TestValidateAnswers_UnknownTypeUnanswered(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.QuestionType("rating")},
		{ID: 2, Type: models.QuestionText},
	}

	failures := ValidateAnswers(map[uint]models.AnswerValue{}, questions)
	if len(failures) != 1 {
		t.Fatalf("Expected 1 failure, got %d: %v", len(failures), failures)
	}
	if got := answerCode(failures[1]); got != CodeUnknownType {
		t.Errorf("Expected UNKNOWN_TYPE for question 1, got %q", got)
	}
}

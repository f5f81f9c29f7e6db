package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

const (
	DefaultMinRows = 1
	DefaultMaxRows = 10
	MaxTableRows   = 100
)

// ExpiryPresets are the share link lifetimes offered to admins, in hours
var ExpiryPresets = []int{1, 6, 12, 24, 72, 168}

// registerBusinessRules registers custom business rule validators
func (v *Validator) registerBusinessRules() {
	v.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Survey title 1-200 characters
	v.validate.RegisterValidation("survey_title", func(fl validator.FieldLevel) bool {
		return runeLenBetween(strings.TrimSpace(fl.Field().String()), 1, 200)
	})

	v.validate.RegisterValidation("survey_description", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= 5000
	})

	// Question title 1-500 characters
	v.validate.RegisterValidation("question_title", func(fl validator.FieldLevel) bool {
		return runeLenBetween(strings.TrimSpace(fl.Field().String()), 1, 500)
	})

	v.validate.RegisterValidation("question_description", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= 2000
	})

	v.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return models.QuestionType(fl.Field().String()).IsValid()
	})

	v.validate.RegisterValidation("column_type", func(fl validator.FieldLevel) bool {
		return models.ColumnType(fl.Field().String()).IsValid()
	})

	v.validate.RegisterValidation("prefill_key", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= 100
	})

	v.validate.RegisterValidation("expiry_preset", func(fl validator.FieldLevel) bool {
		hours := int(fl.Field().Int())
		for _, preset := range ExpiryPresets {
			if hours == preset {
				return true
			}
		}
		return false
	})

	v.validate.RegisterValidation("export_format", func(fl validator.FieldLevel) bool {
		format := fl.Field().String()
		return format == "csv" || format == "excel"
	})
}

func runeLenBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// ValidateSurvey validates a survey form and trims its title
func (v *Validator) ValidateSurvey(req *SurveyRequest) ValidationErrors {
	req.Title = strings.TrimSpace(req.Title)
	return v.Validate(req)
}

// ValidateQuestionCreate validates the question form and normalizes its config for the type
func (v *Validator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	req.Title = strings.TrimSpace(req.Title)
	req.PrefillKey = strings.TrimSpace(req.PrefillKey)

	errs := v.Validate(req)
	if req.Type.IsValid() {
		errs = append(errs, ValidateQuestionConfig(req.Type, &req.Config)...)
	}
	return errs
}

// ValidateQuestionUpdate validates a partial update. When the config or the type
// changes, the resulting config is checked against the resulting type.
func (v *Validator) ValidateQuestionUpdate(req *QuestionUpdateRequest, existing *models.Question) ValidationErrors {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if req.PrefillKey != nil {
		trimmed := strings.TrimSpace(*req.PrefillKey)
		req.PrefillKey = &trimmed
	}

	errs := v.Validate(req)
	if req.Type == nil && req.Config == nil {
		return errs
	}

	qType := existing.Type
	if req.Type != nil {
		qType = *req.Type
	}
	if !qType.IsValid() {
		return errs
	}
	if req.Config == nil {
		cfg := existing.Config
		req.Config = &cfg
	}
	return append(errs, ValidateQuestionConfig(qType, req.Config)...)
}

// ValidateQuestionConfig checks that a config fits its question type. It trims
// options, drops settings that do not apply to the type, fills row defaults and
// assigns ids to new table columns.
func ValidateQuestionConfig(qType models.QuestionType, cfg *models.QuestionConfig) ValidationErrors {
	var errs ValidationErrors

	switch {
	case qType == models.QuestionText:
		*cfg = models.QuestionConfig{}

	case qType.HasOptions():
		cfg.Columns, cfg.MinRows, cfg.MaxRows, cfg.CanAddRow = nil, nil, nil, nil
		cfg.Options = trimAll(cfg.Options)
		if len(cfg.Options) == 0 {
			errs = append(errs, ValidationError{
				Field:   "config.options",
				Message: "must contain at least one option",
				Rule:    "min_options",
			})
		}
		errs = append(errs, blankEntries("config.options", cfg.Options)...)

	case qType == models.QuestionTable:
		cfg.Options = nil
		errs = append(errs, validateColumns(cfg)...)
		errs = append(errs, validateRowBounds(cfg)...)
		if cfg.CanAddRow == nil {
			canAdd := true
			cfg.CanAddRow = &canAdd
		}
	}

	return errs
}

func validateColumns(cfg *models.QuestionConfig) ValidationErrors {
	var errs ValidationErrors
	if len(cfg.Columns) == 0 {
		return ValidationErrors{{
			Field:   "config.columns",
			Message: "must contain at least one column",
			Rule:    "min_columns",
		}}
	}

	for i := range cfg.Columns {
		col := &cfg.Columns[i]
		field := fmt.Sprintf("config.columns[%d]", i)
		if strings.TrimSpace(col.ID) == "" {
			col.ID = uuid.NewString()
		}
		col.Label = strings.TrimSpace(col.Label)
		if !col.Type.IsValid() {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: "must be one of text, number, select",
				Value:   col.Type,
				Rule:    "column_type",
			})
			continue
		}
		if col.Type != models.ColumnSelect {
			col.Options = nil
			continue
		}
		col.Options = trimAll(col.Options)
		if len(col.Options) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".options",
				Message: "select columns need at least one option",
				Rule:    "min_options",
			})
		}
		errs = append(errs, blankEntries(field+".options", col.Options)...)
	}
	return errs
}

func validateRowBounds(cfg *models.QuestionConfig) ValidationErrors {
	minRows, maxRows := DefaultMinRows, DefaultMaxRows
	if cfg.MinRows != nil {
		minRows = *cfg.MinRows
	}
	if cfg.MaxRows != nil {
		maxRows = *cfg.MaxRows
	}
	cfg.MinRows, cfg.MaxRows = &minRows, &maxRows

	var errs ValidationErrors
	if minRows < 1 || minRows > maxRows {
		errs = append(errs, ValidationError{
			Field:   "config.min_rows",
			Message: "must be between 1 and max_rows",
			Value:   minRows,
			Rule:    "row_bounds",
		})
	}
	if maxRows < minRows || maxRows > MaxTableRows {
		errs = append(errs, ValidationError{
			Field:   "config.max_rows",
			Message: fmt.Sprintf("must be between min_rows and %d", MaxTableRows),
			Value:   maxRows,
			Rule:    "row_bounds",
		})
	}
	return errs
}

// trimAll trims entries, keeping blank ones so their position can be reported
func trimAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimSpace(item)
	}
	return out
}

func blankEntries(field string, items []string) ValidationErrors {
	var errs ValidationErrors
	for i, item := range items {
		if item == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "must not be blank",
				Rule:    "not_blank",
			})
		}
	}
	return errs
}

// ValidateProfileUpdate trims the form and enforces that something changes and
// that a new password always comes with the old one.
func (v *Validator) ValidateProfileUpdate(req *ProfileUpdateRequest) ValidationErrors {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.NewPassword == "" {
		req.OldPassword = ""
	}

	errs := v.Validate(req)
	if req.Username == "" && req.Email == "" && req.NewPassword == "" {
		errs = append(errs, ValidationError{
			Field:   "request",
			Message: "at least one field must be provided",
			Rule:    "min_fields",
		})
	}
	if req.NewPassword != "" && req.OldPassword == "" {
		errs = append(errs, ValidationError{
			Field:   "old_password",
			Message: "is required to change the password",
			Rule:    "required_with",
		})
	}
	return errs
}

// ValidateReorder checks that the new order names exactly the survey's questions
func (v *Validator) ValidateReorder(req *ReorderRequest, questions []models.Question) ValidationErrors {
	if errs := v.Validate(req); len(errs) > 0 {
		return errs
	}

	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	var errs ValidationErrors
	for i, id := range req.QuestionIDs {
		if !known[id] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("question_ids[%d]", i),
				Message: "does not belong to this survey",
				Value:   id,
				Rule:    "survey_question",
			})
		}
	}
	if len(errs) == 0 && len(req.QuestionIDs) != len(questions) {
		errs = append(errs, ValidationError{
			Field:   "question_ids",
			Message: fmt.Sprintf("must list all %d questions", len(questions)),
			Value:   len(req.QuestionIDs),
			Rule:    "survey_question",
		})
	}
	return errs
}

// ValidateShare checks the expiry preset
func (v *Validator) ValidateShare(req *ShareRequest) ValidationErrors {
	return v.Validate(req)
}

// ValidateExportFormat checks the export format query value
func (v *Validator) ValidateExportFormat(format string) ValidationErrors {
	return v.Var("format", format, "required,export_format")
}

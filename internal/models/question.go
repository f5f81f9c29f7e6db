package models

import (
	"sort"
	"time"
)

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionTable    QuestionType = "table"
)

// QuestionTypes lists the closed set of question types
var QuestionTypes = []QuestionType{QuestionText, QuestionSingle, QuestionMultiple, QuestionTable}

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionText, QuestionSingle, QuestionMultiple, QuestionTable:
		return true
	}
	return false
}

// HasOptions reports whether the type is answered by picking from config options
func (t QuestionType) HasOptions() bool {
	return t == QuestionSingle || t == QuestionMultiple
}

type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
	ColumnSelect ColumnType = "select"
)

func (t ColumnType) IsValid() bool {
	return t == ColumnText || t == ColumnNumber || t == ColumnSelect
}

type TableColumn struct {
	ID      string     `json:"id"`
	Type    ColumnType `json:"type"`
	Label   string     `json:"label"`
	Options []string   `json:"options,omitempty"`
}

// QuestionConfig holds type specific settings. Options apply to single and multiple
// choice questions; the remaining fields apply to table questions.
type QuestionConfig struct {
	Options   []string      `json:"options,omitempty"`
	Columns   []TableColumn `json:"columns,omitempty"`
	MinRows   *int          `json:"min_rows,omitempty"`
	MaxRows   *int          `json:"max_rows,omitempty"`
	CanAddRow *bool         `json:"can_add_row,omitempty"`
}

// RowBounds returns the effective row limits of a table question. An unset or
// non-positive min_rows means one row; max is -1 when unbounded.
func (c QuestionConfig) RowBounds() (minRows, maxRows int) {
	minRows = 1
	if c.MinRows != nil && *c.MinRows > 0 {
		minRows = *c.MinRows
	}
	maxRows = -1
	if c.MaxRows != nil && *c.MaxRows > 0 {
		maxRows = *c.MaxRows
		if maxRows < minRows {
			maxRows = minRows
		}
	}
	return minRows, maxRows
}

// RowsAddable reports whether respondents may append rows; defaults to true
func (c QuestionConfig) RowsAddable() bool {
	return c.CanAddRow == nil || *c.CanAddRow
}

type Question struct {
	ID          uint           `json:"id"`
	SurveyID    uint           `json:"survey_id"`
	Type        QuestionType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Required    bool           `json:"required"`
	Order       int            `json:"order"`
	Config      QuestionConfig `json:"config"`
	PrefillKey  string         `json:"prefill_key"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SortQuestions returns a copy of questions ordered by their order field
func SortQuestions(questions []Question) []Question {
	sorted := make([]Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// FindQuestion looks a question up by id
func FindQuestion(questions []Question, id uint) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

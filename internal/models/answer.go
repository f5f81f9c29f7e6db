package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// ValueKind tags the shape held by an AnswerValue
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueList
	ValueGrid
	ValueMalformed
)

func (k ValueKind) String() string {
	switch k {
	case ValueAbsent:
		return "absent"
	case ValueText:
		return "text"
	case ValueList:
		return "list"
	case ValueGrid:
		return "grid"
	}
	return "malformed"
}

// AnswerValue is the value of one answer: a string for text and single choice,
// a string list for multiple choice and a grid of strings for table questions.
// JSON that fits none of those shapes decodes as ValueMalformed and keeps the raw bytes.
type AnswerValue struct {
	kind ValueKind
	text string
	list []string
	grid [][]string
	raw  json.RawMessage
}

func TextValue(s string) AnswerValue {
	return AnswerValue{kind: ValueText, text: s}
}

func ListValue(items []string) AnswerValue {
	if items == nil {
		items = []string{}
	}
	return AnswerValue{kind: ValueList, list: items}
}

func GridValue(rows [][]string) AnswerValue {
	if rows == nil {
		rows = [][]string{}
	}
	return AnswerValue{kind: ValueGrid, grid: rows}
}

func (v AnswerValue) Kind() ValueKind { return v.kind }

func (v AnswerValue) Text() (string, bool) {
	return v.text, v.kind == ValueText
}

func (v AnswerValue) List() ([]string, bool) {
	return v.list, v.kind == ValueList
}

// Grid returns the table rows. An empty list counts as an empty grid since `[]`
// carries no element type.
func (v AnswerValue) Grid() ([][]string, bool) {
	switch {
	case v.kind == ValueGrid:
		return v.grid, true
	case v.kind == ValueList && len(v.list) == 0:
		return [][]string{}, true
	}
	return nil, false
}

// IsEmpty reports whether the value counts as unanswered: absent, an empty
// string, an empty list, or a grid whose rows are all empty.
func (v AnswerValue) IsEmpty() bool {
	switch v.kind {
	case ValueAbsent:
		return true
	case ValueText:
		return v.text == ""
	case ValueList:
		return len(v.list) == 0
	case ValueGrid:
		for _, row := range v.grid {
			if len(row) > 0 {
				return false
			}
		}
		return true
	}
	return false
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueList:
		return json.Marshal(v.list)
	case ValueGrid:
		return json.Marshal(v.grid)
	case ValueMalformed:
		return v.raw, nil
	}
	return []byte("null"), nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*v = AnswerValue{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err == nil {
			*v = ListValue(list)
			return nil
		}
		var grid [][]string
		if err := json.Unmarshal(trimmed, &grid); err == nil {
			*v = GridValue(grid)
			return nil
		}
	}

	v.kind = ValueMalformed
	v.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

type Answer struct {
	QuestionID uint        `json:"question_id"`
	Value      AnswerValue `json:"value"`
}

type ResponseData struct {
	Answers []Answer `json:"answers"`
}

type Response struct {
	ID          uint         `json:"id"`
	SurveyID    uint         `json:"survey_id"`
	Data        ResponseData `json:"data"`
	IPAddress   string       `json:"ip_address"`
	UserAgent   string       `json:"user_agent"`
	SubmittedAt time.Time    `json:"submitted_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// AnswerFor finds the answer to a question inside a response
func (r *Response) AnswerFor(questionID uint) (AnswerValue, bool) {
	for _, a := range r.Data.Answers {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return AnswerValue{}, false
}

// Draft holds a respondent's unsubmitted answers for one survey and token
type Draft struct {
	SurveyID  uint            `json:"survey_id"`
	Token     string          `json:"token"`
	Answers   map[uint]Answer `json:"answers"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewDraft(surveyID uint, token string) *Draft {
	return &Draft{
		SurveyID: surveyID,
		Token:    token,
		Answers:  make(map[uint]Answer),
	}
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/survey-portal/internal/i18n"
	"github.com/SAP-F-2025/survey-portal/internal/models"
)

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		name   string
		value  models.AnswerValue
		locale string
		want   string
	}{
		{name: "absent", value: models.AnswerValue{}, locale: i18n.English, want: "-"},
		{name: "empty text", value: models.TextValue(""), locale: i18n.English, want: "-"},
		{name: "text", value: models.TextValue("hello"), locale: i18n.English, want: "hello"},
		{name: "empty list", value: models.ListValue(nil), locale: i18n.English, want: "-"},
		{name: "list", value: models.ListValue([]string{"a", "b"}), locale: i18n.English, want: "a, b"},
		{name: "grid english", value: models.GridValue([][]string{{"x", "1"}, {"y", "2"}}), locale: i18n.English, want: "Row 1: [x, 1]\nRow 2: [y, 2]"},
		{name: "grid chinese", value: models.GridValue([][]string{{"x"}}), locale: i18n.Chinese, want: "行1: [x]"},
		{name: "empty grid", value: models.GridValue(nil), locale: i18n.Chinese, want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAnswer(tt.value, tt.locale); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatAnswer_Malformed(t *testing.T) {
	var v models.AnswerValue
	if err := v.UnmarshalJSON([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := FormatAnswer(v, i18n.English); got != `{"a":1}` {
		t.Errorf("Expected raw json, got %q", got)
	}
}

func sampleData() ([]models.Question, []models.Response) {
	questions := []models.Question{
		{ID: 2, Title: "Colors", Type: models.QuestionMultiple, Order: 1},
		{ID: 1, Title: "Name", Type: models.QuestionText, Order: 0},
	}
	responses := []models.Response{
		{
			ID:        10,
			IPAddress: "10.0.0.1",
			Data: models.ResponseData{Answers: []models.Answer{
				{QuestionID: 1, Value: models.TextValue("Ann")},
				{QuestionID: 2, Value: models.ListValue([]string{"red", "blue"})},
			}},
		},
		{ID: 11},
	}
	return questions, responses
}

func TestBuildResponseTable(t *testing.T) {
	questions, responses := sampleData()
	table := BuildResponseTable(questions, responses, i18n.English)

	wantHeaders := []string{"ID", "Submitted at", "IP address", "Name", "Colors"}
	if len(table.Headers) != len(wantHeaders) {
		t.Fatalf("Expected headers %v, got %v", wantHeaders, table.Headers)
	}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("Expected header %d to be %q, got %q", i, h, table.Headers[i])
		}
	}

	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	first := table.Rows[0]
	if first[0] != "10" || first[2] != "10.0.0.1" || first[3] != "Ann" || first[4] != "red, blue" {
		t.Errorf("Unexpected first row %v", first)
	}
	second := table.Rows[1]
	if second[1] != "-" || second[2] != "-" || second[3] != "-" || second[4] != "-" {
		t.Errorf("Expected placeholders in empty response, got %v", second)
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		title  string
		format string
		want   string
	}{
		{title: "Feedback", format: FormatCSV, want: "Feedback_2026-05-04.csv"},
		{title: "Q1/Q2 review", format: FormatExcel, want: "Q1_Q2 review_2026-05-04.xlsx"},
		{title: "  ", format: FormatCSV, want: "survey_2026-05-04.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, tt.format, day); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestWriteSheet(t *testing.T) {
	questions, responses := sampleData()
	table := BuildResponseTable(questions, responses, i18n.Chinese)

	data, err := WriteSheet(table, "回复")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to read workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("回复")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "提交时间" {
		t.Errorf("Expected chinese header, got %q", rows[0][1])
	}
	if rows[1][3] != "Ann" {
		t.Errorf("Expected Ann, got %q", rows[1][3])
	}
}

// Package export renders survey responses as display tables and spreadsheets.
package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/i18n"
	"github.com/SAP-F-2025/survey-portal/internal/models"
)

const (
	emptyCell       = "-"
	timestampLayout = "2006-01-02 15:04:05"
)

// Export formats accepted by the backend and the extensions of their files
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// FormatAnswer renders an answer for display. Unanswered values render as "-",
// choices are joined with ", " and table rows are listed one per line.
func FormatAnswer(value models.AnswerValue, locale string) string {
	switch value.Kind() {
	case models.ValueAbsent:
		return emptyCell
	case models.ValueText:
		text, _ := value.Text()
		if text == "" {
			return emptyCell
		}
		return text
	case models.ValueList:
		items, _ := value.List()
		if len(items) == 0 {
			return emptyCell
		}
		return strings.Join(items, ", ")
	case models.ValueGrid:
		rows, _ := value.Grid()
		return formatRows(rows, locale)
	}

	raw, err := value.MarshalJSON()
	if err != nil {
		return emptyCell
	}
	return string(raw)
}

func formatRows(rows [][]string, locale string) string {
	if len(rows) == 0 {
		return emptyCell
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fmt.Sprintf("%s: [%s]", i18n.T(locale, "label.row", i+1), strings.Join(row, ", "))
	}
	return strings.Join(lines, "\n")
}

// Table is a response list flattened into display cells
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// BuildResponseTable lays out one row per response: id, submission time, IP
// address and then one formatted cell per question in question order.
func BuildResponseTable(questions []models.Question, responses []models.Response, locale string) Table {
	ordered := models.SortQuestions(questions)

	headers := []string{
		i18n.T(locale, "label.id"),
		i18n.T(locale, "label.submitted_at"),
		i18n.T(locale, "label.ip_address"),
	}
	for _, q := range ordered {
		headers = append(headers, q.Title)
	}

	rows := make([][]string, 0, len(responses))
	for i := range responses {
		resp := &responses[i]
		row := []string{
			strconv.FormatUint(uint64(resp.ID), 10),
			formatTime(resp.SubmittedAt),
			orEmpty(resp.IPAddress),
		}
		for _, q := range ordered {
			value, _ := resp.AnswerFor(q.ID)
			row = append(row, FormatAnswer(value, locale))
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return emptyCell
	}
	return t.Local().Format(timestampLayout)
}

func orEmpty(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\r\n]+`)

// Filename names an export file {title}_{YYYY-MM-DD}.{ext}
func Filename(title, format string, day time.Time) string {
	name := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(title, "_"))
	if name == "" {
		name = "survey"
	}
	return fmt.Sprintf("%s_%s.%s", name, day.Format("2006-01-02"), Extension(format))
}

// Extension maps an export format to its file extension
func Extension(format string) string {
	if format == FormatExcel {
		return "xlsx"
	}
	return FormatCSV
}

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	if format == FormatExcel {
		return SheetContentType
	}
	return "text/csv; charset=utf-8"
}

package table

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

func tableQuestion(minRows, maxRows *int, canAdd *bool) models.Question {
	return models.Question{
		ID:   5,
		Type: models.QuestionTable,
		Config: models.QuestionConfig{
			Columns: []models.TableColumn{
				{ID: "name", Type: models.ColumnText, Label: "Name"},
				{ID: "qty", Type: models.ColumnNumber, Label: "Qty"},
				{ID: "size", Type: models.ColumnSelect, Label: "Size", Options: []string{"S", "M", "L"}},
			},
			MinRows:   minRows,
			MaxRows:   maxRows,
			CanAddRow: canAdd,
		},
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewEditor_InitialRows(t *testing.T) {
	tests := []struct {
		name     string
		minRows  *int
		wantRows int
	}{
		{name: "unset min defaults to one row", minRows: nil, wantRows: 1},
		{name: "min rows honoured", minRows: ptr(3), wantRows: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEditor(tableQuestion(tt.minRows, ptr(5), nil), nil)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			rows := e.Rows()
			if len(rows) != tt.wantRows {
				t.Fatalf("Expected %d rows, got %d", tt.wantRows, len(rows))
			}
			for _, row := range rows {
				if len(row) != 3 {
					t.Fatalf("Expected 3 cells per row, got %d", len(row))
				}
				for _, cell := range row {
					if cell != "" {
						t.Fatalf("Expected empty cells, got %q", cell)
					}
				}
			}
		})
	}
}

func TestNewEditor_FitsExistingValue(t *testing.T) {
	current := [][]string{{"a"}, {"b", "2", "M", "extra"}, {"c"}, {"d"}}
	e, err := NewEditor(tableQuestion(ptr(1), ptr(3), nil), current)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rows := e.Rows()
	if len(rows) != 3 {
		t.Fatalf("Expected rows clamped to 3, got %d", len(rows))
	}
	if len(rows[0]) != 3 || rows[0][0] != "a" || rows[0][1] != "" {
		t.Errorf("Expected short row padded, got %v", rows[0])
	}
	if len(rows[1]) != 3 || rows[1][2] != "M" {
		t.Errorf("Expected long row cut to columns, got %v", rows[1])
	}
}

func TestNewEditor_RejectsNonTable(t *testing.T) {
	if _, err := NewEditor(models.Question{Type: models.QuestionText}, nil); !errors.Is(err, ErrNotTableType) {
		t.Fatalf("Expected ErrNotTableType, got %v", err)
	}
}

func TestEditor_AddRowBounds(t *testing.T) {
	e, _ := NewEditor(tableQuestion(ptr(1), ptr(2), nil), nil)

	if err := e.AddRow(); err != nil {
		t.Fatalf("Expected first add to succeed, got %v", err)
	}
	if err := e.AddRow(); !errors.Is(err, ErrRowLimit) {
		t.Fatalf("Expected ErrRowLimit at max rows, got %v", err)
	}
	if e.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", e.RowCount())
	}
}

func TestEditor_AddRowDisabled(t *testing.T) {
	e, _ := NewEditor(tableQuestion(ptr(1), ptr(5), ptr(false)), nil)
	if e.CanAddRow() {
		t.Fatalf("Expected adding to be disabled")
	}
	if err := e.AddRow(); !errors.Is(err, ErrRowsLocked) {
		t.Fatalf("Expected ErrRowsLocked, got %v", err)
	}
	if e.RowCount() != 1 {
		t.Fatalf("Expected row count unchanged, got %d", e.RowCount())
	}
}

func TestEditor_UnboundedMax(t *testing.T) {
	e, _ := NewEditor(tableQuestion(nil, nil, nil), nil)
	for i := 0; i < 150; i++ {
		if err := e.AddRow(); err != nil {
			t.Fatalf("Unexpected error on add %d: %v", i, err)
		}
	}
	if e.RowCount() != 151 {
		t.Fatalf("Expected 151 rows, got %d", e.RowCount())
	}
}

func TestEditor_DeleteRow(t *testing.T) {
	e, _ := NewEditor(tableQuestion(ptr(2), ptr(4), nil), [][]string{{"a"}, {"b"}, {"c"}})

	if err := e.DeleteRow(1); err != nil {
		t.Fatalf("Expected delete to succeed, got %v", err)
	}
	rows := e.Rows()
	if len(rows) != 2 || rows[0][0] != "a" || rows[1][0] != "c" {
		t.Fatalf("Expected [a c], got %v", rows)
	}
	if err := e.DeleteRow(0); !errors.Is(err, ErrMinRows) {
		t.Fatalf("Expected ErrMinRows at min rows, got %v", err)
	}
	if err := e.DeleteRow(9); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange, got %v", err)
	}
}

func TestEditor_SetCell(t *testing.T) {
	e, _ := NewEditor(tableQuestion(ptr(1), ptr(2), nil), nil)

	tests := []struct {
		name    string
		row     int
		col     int
		value   string
		wantErr error
	}{
		{name: "text", row: 0, col: 0, value: "anything"},
		{name: "number", row: 0, col: 1, value: "3.5"},
		{name: "not a number", row: 0, col: 1, value: "three", wantErr: ErrInvalidCell},
		{name: "negative exponent", row: 0, col: 1, value: "-1.5e3"},
		{name: "nan", row: 0, col: 1, value: "NaN", wantErr: ErrInvalidCell},
		{name: "infinity", row: 0, col: 1, value: "Inf", wantErr: ErrInvalidCell},
		{name: "hex float", row: 0, col: 1, value: "0x1p3", wantErr: ErrInvalidCell},
		{name: "overflow", row: 0, col: 1, value: "1e999", wantErr: ErrInvalidCell},
		{name: "select option", row: 0, col: 2, value: "L"},
		{name: "select unknown option", row: 0, col: 2, value: "XL", wantErr: ErrInvalidCell},
		{name: "clear select", row: 0, col: 2, value: ""},
		{name: "row out of range", row: 4, col: 0, value: "x", wantErr: ErrOutOfRange},
		{name: "column out of range", row: 0, col: 3, value: "x", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.SetCell(tt.row, tt.col, tt.value)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if got := e.Rows()[tt.row][tt.col]; got != tt.value {
					t.Fatalf("Expected %q, got %q", tt.value, got)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEditor_SetCellTrimsNumbers(t *testing.T) {
	e, _ := NewEditor(tableQuestion(ptr(1), ptr(2), nil), nil)

	if err := e.SetCell(0, 1, " 42 "); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := e.Rows()[0][1]; got != "42" {
		t.Errorf("Expected trimmed number 42, got %q", got)
	}
	if err := e.SetCell(0, 1, "   "); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := e.Rows()[0][1]; got != "" {
		t.Errorf("Expected blank number cell cleared, got %q", got)
	}
}

func TestEditor_RowsReturnsCopy(t *testing.T) {
	e, _ := NewEditor(tableQuestion(nil, nil, nil), nil)
	rows := e.Rows()
	rows[0][0] = "mutated"
	if e.Rows()[0][0] != "" {
		t.Fatalf("Expected editor state to be isolated from returned rows")
	}
}

func TestEditor_State(t *testing.T) {
	e, _ := NewEditor(tableQuestion(ptr(1), ptr(1), nil), nil)
	state := e.State()
	if state.CanAdd || state.CanDelete {
		t.Fatalf("Expected no add or delete at min == max, got %+v", state)
	}
	if state.MinRows != 1 || state.MaxRows != 1 || len(state.Columns) != 3 {
		t.Fatalf("Unexpected state %+v", state)
	}
}

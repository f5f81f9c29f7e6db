// Package table manages the rows of a table question answer. Row counts stay
// within the question's [min_rows, max_rows] bounds and every row has one cell
// per column.
package table

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

var (
	ErrRowLimit     = errors.New("row limit reached")
	ErrRowsLocked   = errors.New("rows cannot be added to this table")
	ErrMinRows      = errors.New("minimum row count reached")
	ErrOutOfRange   = errors.New("cell position out of range")
	ErrInvalidCell  = errors.New("invalid cell value")
	ErrNotTableType = errors.New("question is not a table")
)

// Editor edits one table answer in memory
type Editor struct {
	columns   []models.TableColumn
	minRows   int
	maxRows   int
	canAddRow bool
	rows      [][]string
}

// NewEditor builds an editor for a table question, starting from an existing
// answer when there is one. Rows are padded or cut to the column count and the
// row count is clamped into the question bounds.
func NewEditor(q models.Question, current [][]string) (*Editor, error) {
	if q.Type != models.QuestionTable {
		return nil, ErrNotTableType
	}

	minRows, maxRows := q.Config.RowBounds()
	e := &Editor{
		columns:   q.Config.Columns,
		minRows:   minRows,
		maxRows:   maxRows,
		canAddRow: q.Config.RowsAddable(),
	}

	for _, row := range current {
		if e.maxRows >= 0 && len(e.rows) == e.maxRows {
			break
		}
		e.rows = append(e.rows, e.fitRow(row))
	}
	for len(e.rows) < e.minRows {
		e.rows = append(e.rows, e.emptyRow())
	}
	return e, nil
}

func (e *Editor) emptyRow() []string {
	return make([]string, len(e.columns))
}

func (e *Editor) fitRow(row []string) []string {
	fitted := e.emptyRow()
	copy(fitted, row)
	return fitted
}

// Rows returns a copy of the current rows
func (e *Editor) Rows() [][]string {
	out := make([][]string, len(e.rows))
	for i, row := range e.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (e *Editor) RowCount() int { return len(e.rows) }

// CanAddRow reports whether AddRow would succeed
func (e *Editor) CanAddRow() bool {
	return e.canAddRow && (e.maxRows < 0 || len(e.rows) < e.maxRows)
}

// CanDeleteRow reports whether DeleteRow would succeed
func (e *Editor) CanDeleteRow() bool {
	return len(e.rows) > e.minRows
}

// AddRow appends an empty row
func (e *Editor) AddRow() error {
	if !e.canAddRow {
		return ErrRowsLocked
	}
	if !e.CanAddRow() {
		return ErrRowLimit
	}
	e.rows = append(e.rows, e.emptyRow())
	return nil
}

// DeleteRow removes the row at index
func (e *Editor) DeleteRow(index int) error {
	if index < 0 || index >= len(e.rows) {
		return ErrOutOfRange
	}
	if !e.CanDeleteRow() {
		return ErrMinRows
	}
	e.rows = append(e.rows[:index], e.rows[index+1:]...)
	return nil
}

// SetCell writes a value, checked against the column type. Empty always clears.
func (e *Editor) SetCell(row, col int, value string) error {
	if row < 0 || row >= len(e.rows) || col < 0 || col >= len(e.columns) {
		return ErrOutOfRange
	}

	column := e.columns[col]
	if column.Type == models.ColumnNumber {
		value = strings.TrimSpace(value)
	}
	if value != "" {
		switch column.Type {
		case models.ColumnNumber:
			if !isDecimal(value) {
				return fmt.Errorf("%w: column %q expects a number", ErrInvalidCell, column.Label)
			}
		case models.ColumnSelect:
			if !contains(column.Options, value) {
				return fmt.Errorf("%w: %q is not an option of column %q", ErrInvalidCell, value, column.Label)
			}
		}
	}

	e.rows[row][col] = value
	return nil
}

// decimalNumber excludes the hex, inf and nan forms strconv also accepts
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func isDecimal(value string) bool {
	if !decimalNumber.MatchString(value) {
		return false
	}
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && !math.IsInf(f, 0)
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

// State is the serialisable view of an editor
type State struct {
	Rows      [][]string           `json:"rows"`
	Columns   []models.TableColumn `json:"columns"`
	MinRows   int                  `json:"min_rows"`
	MaxRows   int                  `json:"max_rows"`
	CanAdd    bool                 `json:"can_add"`
	CanDelete bool                 `json:"can_delete"`
}

func (e *Editor) State() State {
	return State{
		Rows:      e.Rows(),
		Columns:   e.columns,
		MinRows:   e.minRows,
		MaxRows:   e.maxRows,
		CanAdd:    e.CanAddRow(),
		CanDelete: e.CanDeleteRow(),
	}
}

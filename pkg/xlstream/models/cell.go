// Package models defines the data structures produced by the row stream.
package models

import "fmt"

// ValueType is the semantic type implied by a cell's number format.
type ValueType string

const (
	TypeFloat      ValueType = "float"
	TypePercentage ValueType = "percentage"
	TypeDate       ValueType = "date"
	TypeTime       ValueType = "time"
	TypeDateTime   ValueType = "datetime"
	TypeString     ValueType = "string"
)

// ParseValueType converts a type name (as used in override files) to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	switch t := ValueType(s); t {
	case TypeFloat, TypePercentage, TypeDate, TypeTime, TypeDateTime, TypeString:
		return t, nil
	}
	return "", fmt.Errorf("unknown value type %q", s)
}

// Cell represents one populated cell of a row.
type Cell struct {
	// Column is the 0-based column index.
	Column int `json:"c"`
	// Value is nil, float64, time.Time or string.
	Value any `json:"v"`
	// Formula is the formula text without the leading "=", empty when absent.
	Formula string `json:"f,omitempty"`
	// Type is the value type resolved from the cell style, empty when unstyled.
	Type ValueType `json:"type,omitempty"`
	// Font, Fill and Border are only set when formatting detail is enabled.
	// They point into the workbook's style tables and must not be modified.
	Font   *Font   `json:"font,omitempty"`
	Fill   *Fill   `json:"fill,omitempty"`
	Border *Border `json:"border,omitempty"`
}

// Row is an ordered sequence of cells. Skipped columns hold nil.
type Row []*Cell

// Len returns the number of column slots in the row, placeholders included.
func (r Row) Len() int { return len(r) }

// Cell returns the cell at the 0-based column or nil when the slot is empty.
func (r Row) Cell(col int) *Cell {
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Values returns the cell values of the row, nil for empty slots.
func (r Row) Values() []any {
	out := make([]any, len(r))
	for i, c := range r {
		if c != nil {
			out[i] = c.Value
		}
	}
	return out
}

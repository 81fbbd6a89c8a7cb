// Package output serializes rows and workbook metadata to JSON.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/metakeule/fmtdate"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// ToJSON serializes v to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// RowRecord is one line of row output.
type RowRecord struct {
	Sheet string     `json:"sheet"`
	Row   int        `json:"r"`
	Cells models.Row `json:"cells,omitempty"`
	// Values replaces Cells in values-only output.
	Values []any `json:"values,omitempty"`
}

// RowWriter writes rows as newline-delimited JSON, one record per row.
type RowWriter struct {
	w          *bufio.Writer
	enc        *json.Encoder
	valuesOnly bool
	dateFormat string
	written    int
}

// NewRowWriter creates a RowWriter on w. With valuesOnly set, records carry
// the bare cell values instead of the full cells.
func NewRowWriter(w io.Writer, valuesOnly bool) *RowWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &RowWriter{w: bw, enc: enc, valuesOnly: valuesOnly}
}

// SetDateFormat renders date values with a pattern such as "YYYY-MM-DD hh:mm"
// instead of RFC 3339. An empty pattern restores the default.
func (rw *RowWriter) SetDateFormat(pattern string) {
	rw.dateFormat = pattern
}

// WriteRow writes the row with 1-based number r of the named sheet.
func (rw *RowWriter) WriteRow(sheet string, r int, row models.Row) error {
	if rw.dateFormat != "" {
		row = rw.formatDates(row)
	}
	rec := RowRecord{Sheet: sheet, Row: r}
	if rw.valuesOnly {
		rec.Values = row.Values()
	} else {
		rec.Cells = row
	}
	if err := rw.enc.Encode(rec); err != nil {
		return fmt.Errorf("write row %d: %w", r, err)
	}
	rw.written++
	return nil
}

// formatDates returns row with its date values rendered as text. The caller's
// cells are left untouched.
func (rw *RowWriter) formatDates(row models.Row) models.Row {
	var out models.Row
	for i, c := range row {
		if c == nil {
			continue
		}
		t, ok := c.Value.(time.Time)
		if !ok {
			continue
		}
		if out == nil {
			out = make(models.Row, len(row))
			copy(out, row)
		}
		formatted := *c
		formatted.Value = fmtdate.Format(rw.dateFormat, t)
		out[i] = &formatted
	}
	if out == nil {
		return row
	}
	return out
}

// Written returns the number of rows written so far.
func (rw *RowWriter) Written() int { return rw.written }

// Flush writes any buffered records to the underlying writer.
func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}

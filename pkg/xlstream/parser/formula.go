package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormulaAnchor is the first cell of a shared formula group. Row is the
// 1-based sheet row, Column the 0-based column index.
type FormulaAnchor struct {
	Row      int
	Column   int
	Template string
}

// cellRefPattern matches a cell reference at the start of the input:
// optional $, column letters, optional $, row digits.
var cellRefPattern = regexp.MustCompile(`^(\$?)([A-Z]{1,3})(\$?)([0-9]+)`)

// TranslateFormula rewrites the anchor's template for the cell at row and
// column, shifting every relative reference by the distance between the two
// cells. Absolute parts are kept. Quoted strings and sheet names are copied
// unchanged.
func TranslateFormula(anchor FormulaAnchor, row, column int) (string, error) {
	rowShift := row - anchor.Row
	colShift := column - anchor.Column
	if rowShift == 0 && colShift == 0 {
		return anchor.Template, nil
	}

	src := anchor.Template
	var out strings.Builder
	out.Grow(len(src))
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			end := quotedEnd(src, i)
			out.WriteString(src[i:end])
			i = end
		case c == '$' || isIdentByte(c):
			end := identEnd(src, i)
			ref, err := shiftReference(src[i:end], rowShift, colShift)
			if err != nil {
				return "", fmt.Errorf("shared formula %q at R%dC%d: %w", src, row, column+1, err)
			}
			out.WriteString(ref)
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

// shiftReference shifts tok when it is exactly a cell reference. Tokens that
// continue into a function call or a sheet qualifier are returned as is.
func shiftReference(tok string, rowShift, colShift int) (string, error) {
	m := cellRefPattern.FindStringSubmatch(tok)
	if m == nil || len(m[0]) != len(tok) {
		return tok, nil
	}
	colAbs, label, rowAbs, digits := m[1] == "$", m[2], m[3] == "$", m[4]

	if !colAbs {
		idx, err := ColumnIndex(label)
		if err != nil {
			return "", fmt.Errorf("%s: %w", tok, ErrInvalidReference)
		}
		if label, err = ColumnName(idx + colShift); err != nil {
			return "", fmt.Errorf("%s shifted by %d columns: %w", tok, colShift, ErrInvalidReference)
		}
	}
	if !rowAbs {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return "", fmt.Errorf("%s: %w", tok, ErrInvalidReference)
		}
		if n+rowShift < 1 {
			return "", fmt.Errorf("%s shifted by %d rows: %w", tok, rowShift, ErrInvalidReference)
		}
		digits = strconv.Itoa(n + rowShift)
	}
	return m[1] + label + m[3] + digits, nil
}

// identEnd returns the end of the name-like token starting at i. Tokens
// followed by "(" or "!" are extended by that byte so they never match as a
// cell reference.
func identEnd(s string, i int) int {
	j := i
	if s[j] == '$' {
		j++
	}
	for j < len(s) && (isIdentByte(s[j]) || s[j] == '$') {
		j++
	}
	if j < len(s) && (s[j] == '(' || s[j] == '!') {
		j++
	}
	return j
}

func isIdentByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '.' || c >= 0x80
}

// quotedEnd returns the index after the quoted run starting at i. A doubled
// quote character is an escaped quote.
func quotedEnd(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

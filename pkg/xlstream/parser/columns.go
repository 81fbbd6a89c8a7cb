package parser

import "fmt"

// MaxColumns is the number of addressable columns, A through ZZZ.
const MaxColumns = 26 + 26*26 + 26*26*26

// ColumnName returns the letter label of a 0-based column index.
func ColumnName(index int) (string, error) {
	if index < 0 || index >= MaxColumns {
		return "", fmt.Errorf("column index %d: %w", index, ErrIndexOutOfRange)
	}
	var buf [3]byte
	i := len(buf)
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:]), nil
}

// ColumnIndex returns the 0-based index of a column label such as "A" or "AB".
// Labels are upper case, one to three letters.
func ColumnIndex(label string) (int, error) {
	if label == "" || len(label) > 3 {
		return 0, fmt.Errorf("column label %q: %w", label, ErrIndexOutOfRange)
	}
	n := 0
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("column label %q: %w", label, ErrIndexOutOfRange)
		}
		n = n*26 + int(c-'A'+1)
	}
	return n - 1, nil
}

// splitCellRef splits a reference such as "AB12" into its column label and
// row digits. Either part may be empty.
func splitCellRef(ref string) (label, digits string) {
	i := 0
	for i < len(ref) && (ref[i] < '0' || ref[i] > '9') {
		i++
	}
	return ref[:i], ref[i:]
}

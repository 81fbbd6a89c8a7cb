package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// SharedStringTable is the workbook's ordered list of de-duplicated strings.
// It is immutable once read.
type SharedStringTable struct {
	items []string
}

// NewSharedStringTable wraps an already built list of strings.
func NewSharedStringTable(items []string) *SharedStringTable {
	return &SharedStringTable{items: items}
}

// ReadSharedStrings builds the table from a sharedStrings part. Each si entry
// becomes the concatenation of its t runs; phonetic runs are left out.
func ReadSharedStrings(events EventReader) (*SharedStringTable, error) {
	table := &SharedStringTable{}
	var (
		entry    strings.Builder
		inItem   bool
		inText   bool
		phonetic int
	)
	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch ev.Kind {
		case StartElement:
			switch ev.Name {
			case "si":
				entry.Reset()
				inItem = true
				if ev.SelfClosing {
					table.items = append(table.items, "")
					inItem = false
				}
			case "rPh":
				if !ev.SelfClosing {
					phonetic++
				}
			case "t":
				inText = inItem && !ev.SelfClosing
			}
		case EndElement:
			switch ev.Name {
			case "si":
				if inItem {
					table.items = append(table.items, entry.String())
				}
				inItem = false
			case "rPh":
				phonetic--
			case "t":
				inText = false
			}
		case Text:
			if inText && phonetic == 0 {
				entry.WriteString(ev.Text)
			}
		}
	}
	if inItem {
		return nil, fmt.Errorf("%w: unterminated shared string item %d", ErrMalformedDocument, len(table.items))
	}
	return table, nil
}

// Lookup returns the string at index i.
func (t *SharedStringTable) Lookup(i int) (string, error) {
	if i < 0 || i >= len(t.items) {
		return "", fmt.Errorf("shared string %d of %d: %w", i, len(t.items), ErrIndexOutOfRange)
	}
	return t.items[i], nil
}

// Len returns the number of entries.
func (t *SharedStringTable) Len() int { return len(t.items) }

// Strings returns the entries. The slice must not be modified.
func (t *SharedStringTable) Strings() []string { return t.items }

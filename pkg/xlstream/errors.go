package xlstream

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
)

// Errors reported while reading a workbook. Use errors.Is to match them.
var (
	ErrArchiveEntryNotFound = parser.ErrArchiveEntryNotFound
	ErrMalformedDocument    = parser.ErrMalformedDocument
	ErrUnknownFormatID      = parser.ErrUnknownFormatID
	ErrIndexOutOfRange      = parser.ErrIndexOutOfRange
	ErrInvalidReference     = parser.ErrInvalidReference
)

// ErrSheetNotFound indicates a sheet name absent from the workbook manifest.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetError represents an error while reading a sheet.
type SheetError struct {
	SheetName string
	Component string // "rows", "dimension"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName, component string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}

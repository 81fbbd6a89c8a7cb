// Package xlstream reads xlsx workbooks row by row without loading sheets
// into memory.
package xlstream

import (
	"time"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Options configures how a workbook is read. Options are resolved once when
// the workbook is opened.
type Options struct {
	// IncludeFormatting attaches font, fill and border attributes to cells.
	// If nil, defaults to true.
	IncludeFormatting *bool
	// FormatOverrides maps number format codes to value types for codes the
	// built-in table does not know. Codes match case-insensitively.
	FormatOverrides map[string]models.ValueType
	// ResolveSheetPaths locates sheet parts through the workbook
	// relationships instead of the sheetN.xml naming convention.
	// If nil, defaults to false.
	ResolveSheetPaths *bool
	// DateConverter converts date serials. If nil, the 1900 date system of
	// excelize.ExcelDateToTime is used.
	DateConverter parser.DateConverter
	// Logger receives debug and warning messages. If nil, logging is off.
	Logger *zap.Logger
}

// DefaultOptions returns default read options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldIncludeFormatting returns whether formatting detail is resolved.
func (o Options) ShouldIncludeFormatting() bool {
	if o.IncludeFormatting != nil {
		return *o.IncludeFormatting
	}
	return true
}

// ShouldResolveSheetPaths returns whether sheet paths come from relationships.
func (o Options) ShouldResolveSheetPaths() bool {
	if o.ResolveSheetPaths != nil {
		return *o.ResolveSheetPaths
	}
	return false
}

func (o Options) dateConverter() parser.DateConverter {
	if o.DateConverter != nil {
		return o.DateConverter
	}
	return excelSerialToTime
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// excelSerialToTime converts a serial counted from 1899-12-30.
func excelSerialToTime(serial float64) (time.Time, error) {
	return excelize.ExcelDateToTime(serial, false)
}

package parser

import (
	"strings"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// builtinFormatTypes maps lower-cased number format codes to value types.
// Besides the standard codes it carries locale variants written by common
// producers (LibreOffice, localized Excel builds).
var builtinFormatTypes = map[string]models.ValueType{
	"general":                  models.TypeFloat,
	"0":                        models.TypeFloat,
	"0.00":                     models.TypeFloat,
	"#,##0":                    models.TypeFloat,
	"#,##0.00":                 models.TypeFloat,
	"0%":                       models.TypePercentage,
	"0.00%":                    models.TypePercentage,
	"0.00e+00":                 models.TypeFloat,
	"# ?/?":                    models.TypeFloat,
	"# ??/??":                  models.TypeFloat,
	"mm-dd-yy":                 models.TypeDate,
	"d-mmm-yy":                 models.TypeDate,
	"d-mmm":                    models.TypeDate,
	"mmm-yy":                   models.TypeDate,
	"h:mm am/pm":               models.TypeDate,
	"h:mm:ss am/pm":            models.TypeDate,
	"h:mm":                     models.TypeTime,
	"h:mm:ss":                  models.TypeTime,
	"m/d/yy h:mm":              models.TypeDate,
	"#,##0 ;(#,##0)":           models.TypeFloat,
	"#,##0 ;[red](#,##0)":      models.TypeFloat,
	"#,##0.00;(#,##0.00)":      models.TypeFloat,
	"#,##0.00;[red](#,##0.00)": models.TypeFloat,
	"mm:ss":                    models.TypeTime,
	"[h]:mm:ss":                models.TypeTime,
	"mmss.0":                   models.TypeTime,
	"##0.0e+0":                 models.TypeFloat,
	"@":                        models.TypeFloat,

	`yyyy\-mm\-dd`:           models.TypeDate,
	"dd/mm/yy":               models.TypeDate,
	"hh:mm:ss":               models.TypeTime,
	`dd/mm/yy\ hh:mm`:        models.TypeDateTime,
	"m/d/yy":                 models.TypeDate,
	"mm/dd/yy":               models.TypeDate,
	"mm/dd/yyyy":             models.TypeDate,
	"yyyy-mm-dd":             models.TypeDate,
	"yyyy/mm/dd":             models.TypeDate,
	"yyyy/m/d":               models.TypeDate,
	"dd/mm/yyyy":             models.TypeDate,
	"d/m/yyyy":               models.TypeDate,
	"m/d/yyyy":               models.TypeDate,
	"dd.mm.yyyy":             models.TypeDate,
	"dd.mm.yy":               models.TypeDate,
	"d.m.yyyy":               models.TypeDate,
	"dd-mm-yyyy":             models.TypeDate,
	"hh:mm":                  models.TypeTime,
	"yyyy-mm-dd hh:mm":       models.TypeDateTime,
	"yyyy-mm-dd hh:mm:ss":    models.TypeDateTime,
	`yyyy\-mm\-dd\ hh:mm:ss`: models.TypeDateTime,
	"dd/mm/yyyy hh:mm":       models.TypeDateTime,
	"dd.mm.yyyy hh:mm":       models.TypeDateTime,
	"m/d/yyyy h:mm":          models.TypeDateTime,
}

// standardFormats holds the codes of the predefined number format ids.
// Documents reference these ids without declaring them.
var standardFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	5:  `"$"#,##0_);\("$"#,##0\)`,
	6:  `"$"#,##0_);[Red]\("$"#,##0\)`,
	7:  `"$"#,##0.00_);\("$"#,##0.00\)`,
	8:  `"$"#,##0.00_);[Red]\("$"#,##0.00\)`,
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// maxStandardFormatID is the highest id reserved for predefined formats.
const maxStandardFormatID = 163

// StandardFormatCode returns the code of a predefined number format id.
func StandardFormatCode(id int) (string, bool) {
	if id < 0 || id > maxStandardFormatID {
		return "", false
	}
	code, ok := standardFormats[id]
	return code, ok
}

// FormatClassifier maps number format codes to value types.
type FormatClassifier struct {
	overrides map[string]models.ValueType
}

// NewFormatClassifier returns a classifier consulting overrides after the
// built-in table. Override keys are matched case-insensitively.
func NewFormatClassifier(overrides map[string]models.ValueType) *FormatClassifier {
	c := &FormatClassifier{overrides: make(map[string]models.ValueType, len(overrides))}
	for code, t := range overrides {
		c.overrides[strings.ToLower(code)] = t
	}
	return c
}

// Classify returns the value type of a format code, TypeFloat when the code is
// unknown.
func (c *FormatClassifier) Classify(code string) models.ValueType {
	code = strings.ToLower(code)
	if t, ok := builtinFormatTypes[code]; ok {
		return t
	}
	if t, ok := c.overrides[code]; ok {
		return t
	}
	return models.TypeFloat
}

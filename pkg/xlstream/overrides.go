package xlstream

import (
	"fmt"
	"os"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"gopkg.in/yaml.v3"
)

// LoadFormatOverrides reads a YAML mapping of number format codes to value
// types, e.g.
//
//	"0.0%": percentage
//	"[$-409]mmm yy": date
func LoadFormatOverrides(path string) (map[string]models.ValueType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read format overrides: %w", err)
	}
	return ParseFormatOverrides(data)
}

// ParseFormatOverrides decodes YAML format overrides.
func ParseFormatOverrides(data []byte) (map[string]models.ValueType, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse format overrides: %w", err)
	}
	out := make(map[string]models.ValueType, len(raw))
	for code, name := range raw {
		t, err := models.ParseValueType(name)
		if err != nil {
			return nil, fmt.Errorf("format %q: %w", code, err)
		}
		out[code] = t
	}
	return out, nil
}

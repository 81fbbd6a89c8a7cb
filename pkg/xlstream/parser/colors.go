package parser

import "strconv"

// themeColors is the default Office theme palette by theme index. The first
// two slots depend on the system window colors and have no fixed value.
var themeColors = [...]string{
	"", "",
	"1F497D", "EEECE1", "4F81BD", "C0504D", "9BBB59", "8064A2", "4BACC6", "F79646",
	"0000FF", "800080",
}

// indexedColors is the legacy indexed palette. Slots 64 and 65 are the
// system foreground and background ("automatic") and have no fixed value.
var indexedColors = [...]string{
	"000000", "FFFFFF", "FF0000", "00FF00", "0000FF", "FFFF00", "FF00FF", "00FFFF",
	"000000", "FFFFFF", "FF0000", "00FF00", "0000FF", "FFFF00", "FF00FF", "00FFFF",
	"800000", "008000", "000080", "808000", "800080", "008080", "C0C0C0", "808080",
	"9999FF", "993366", "FFFFCC", "CCFFFF", "660066", "FF8080", "0066CC", "CCCCFF",
	"000080", "FF00FF", "FFFF00", "00FFFF", "800080", "800000", "008080", "0000FF",
	"00CCFF", "CCFFFF", "CCFFCC", "FFFF99", "99CCFF", "FF99CC", "CC99FF", "FFCC99",
	"3366FF", "33CCCC", "99CC00", "FFCC00", "FF9900", "FF6600", "666699", "969696",
	"003366", "339966", "003300", "333300", "993300", "993366", "333399", "333333",
	"", "",
}

// ResolveColor returns the RGB hex value described by a color element's
// attributes, or "" when it has none. A theme index wins over an explicit rgb
// value, which wins over an indexed palette entry.
func ResolveColor(ev *Event) string {
	if v, ok := ev.Attr("theme"); ok {
		return paletteColor(themeColors[:], v)
	}
	if v, ok := ev.Attr("rgb"); ok {
		if len(v) == 8 {
			return v[2:]
		}
		return v
	}
	if v, ok := ev.Attr("indexed"); ok {
		return paletteColor(indexedColors[:], v)
	}
	return ""
}

func paletteColor(palette []string, index string) string {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(palette) {
		return ""
	}
	return palette[i]
}

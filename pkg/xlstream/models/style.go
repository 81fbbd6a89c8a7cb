package models

// Font holds the subset of font attributes exposed per cell.
type Font struct {
	Bold      bool     `json:"b"`
	Italic    bool     `json:"i"`
	Underline bool     `json:"u"`
	Size      *float64 `json:"sz,omitempty"`
	Name      string   `json:"name,omitempty"`
	// Color is an RGB hex string without alpha, empty when absent.
	Color string `json:"color,omitempty"`
}

// Fill pattern kinds.
const (
	PatternNone  = "none"
	PatternSolid = "solid"
)

// Fill holds the pattern kind and foreground color of a cell fill.
type Fill struct {
	Pattern string `json:"type"`
	FgColor string `json:"fgColor,omitempty"`
}

// Border holds the line style of each side, empty when the side has no line.
type Border struct {
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
}

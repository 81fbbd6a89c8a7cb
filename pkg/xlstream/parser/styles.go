package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// NumberFormat is a number format declared in the styles part.
type NumberFormat struct {
	ID   int
	Code string
}

// StyleRecord is one cellXfs entry. Its position in the table is the style
// index cells refer to.
type StyleRecord struct {
	NumFmtID int
	FontID   int
	FillID   int
	BorderID int
}

// StyleTable holds the parsed styles part. It is read-only after ReadStyles
// returns and safe for concurrent use.
type StyleTable struct {
	numFmts    map[int]string
	records    []StyleRecord
	formatting bool
	fonts      []*models.Font
	fills      []*models.Fill
	borders    []*models.Border
}

// ReadStyles parses a styles part. Font, fill and border tables are only
// built when includeFormatting is set.
func ReadStyles(events EventReader, includeFormatting bool) (*StyleTable, error) {
	st := &StyleTable{
		numFmts:    make(map[int]string),
		formatting: includeFormatting,
	}

	var (
		section string
		font    *models.Font
		fill    *models.Fill
		border  *models.Border
	)
	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if ev.Kind == EndElement {
			switch ev.Name {
			case section:
				section = ""
			case "font":
				if font != nil {
					st.fonts = append(st.fonts, font)
					font = nil
				}
			case "fill":
				if fill != nil {
					st.fills = append(st.fills, fill)
					fill = nil
				}
			case "border":
				if border != nil {
					st.borders = append(st.borders, border)
					border = nil
				}
			}
			continue
		}
		if ev.Kind != StartElement {
			continue
		}

		switch ev.Name {
		case "numFmts", "fonts", "fills", "borders", "cellXfs":
			if !ev.SelfClosing {
				section = ev.Name
			}
			continue
		}

		switch section {
		case "numFmts":
			if ev.Name == "numFmt" {
				id, err := intAttr(&ev, "numFmtId")
				if err != nil {
					return nil, err
				}
				code, _ := ev.Attr("formatCode")
				st.numFmts[id] = code
			}
		case "cellXfs":
			if ev.Name == "xf" {
				rec, err := readStyleRecord(&ev)
				if err != nil {
					return nil, err
				}
				st.records = append(st.records, rec)
			}
		case "fonts":
			if !includeFormatting {
				continue
			}
			if ev.Name == "font" {
				font = &models.Font{}
				if ev.SelfClosing {
					st.fonts = append(st.fonts, font)
					font = nil
				}
				continue
			}
			if font != nil {
				if err := readFontProperty(font, &ev); err != nil {
					return nil, err
				}
			}
		case "fills":
			if !includeFormatting {
				continue
			}
			switch ev.Name {
			case "fill":
				fill = &models.Fill{Pattern: models.PatternNone}
				if ev.SelfClosing {
					st.fills = append(st.fills, fill)
					fill = nil
				}
			case "patternFill":
				if fill != nil {
					if v, ok := ev.Attr("patternType"); ok && v != models.PatternNone {
						fill.Pattern = models.PatternSolid
					}
				}
			case "gradientFill":
				if fill != nil {
					fill.Pattern = models.PatternSolid
				}
			case "fgColor":
				if fill != nil {
					fill.FgColor = ResolveColor(&ev)
				}
			}
		case "borders":
			if !includeFormatting {
				continue
			}
			switch ev.Name {
			case "border":
				border = &models.Border{}
				if ev.SelfClosing {
					st.borders = append(st.borders, border)
					border = nil
				}
			case "left", "start":
				if border != nil {
					border.Left, _ = ev.Attr("style")
				}
			case "right", "end":
				if border != nil {
					border.Right, _ = ev.Attr("style")
				}
			case "top":
				if border != nil {
					border.Top, _ = ev.Attr("style")
				}
			case "bottom":
				if border != nil {
					border.Bottom, _ = ev.Attr("style")
				}
			}
		}
	}
	return st, nil
}

func readStyleRecord(ev *Event) (StyleRecord, error) {
	var rec StyleRecord
	var err error
	if rec.NumFmtID, err = intAttr(ev, "numFmtId"); err != nil {
		return rec, err
	}
	if rec.FontID, err = intAttr(ev, "fontId"); err != nil {
		return rec, err
	}
	if rec.FillID, err = intAttr(ev, "fillId"); err != nil {
		return rec, err
	}
	if rec.BorderID, err = intAttr(ev, "borderId"); err != nil {
		return rec, err
	}
	return rec, nil
}

func readFontProperty(font *models.Font, ev *Event) error {
	switch ev.Name {
	case "b":
		font.Bold = toggleAttr(ev)
	case "i":
		font.Italic = toggleAttr(ev)
	case "u":
		v, ok := ev.Attr("val")
		font.Underline = !ok || v != "none"
	case "sz":
		v, ok := ev.Attr("val")
		if !ok {
			return nil
		}
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: font size %q", ErrMalformedDocument, v)
		}
		font.Size = &size
	case "name":
		font.Name, _ = ev.Attr("val")
	case "color":
		font.Color = ResolveColor(ev)
	}
	return nil
}

// toggleAttr reads boolean properties such as <b/> or <b val="0"/>.
func toggleAttr(ev *Event) bool {
	v, ok := ev.Attr("val")
	return !ok || (v != "0" && v != "false")
}

// intAttr reads an optional integer attribute; absent attributes read as 0.
func intAttr(ev *Event, name string) (int, error) {
	v, ok := ev.Attr(name)
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s %s=%q>", ErrMalformedDocument, ev.Name, name, v)
	}
	return n, nil
}

// Len returns the number of cellXfs entries.
func (st *StyleTable) Len() int { return len(st.records) }

// HasFormatting reports whether font, fill and border tables were built.
func (st *StyleTable) HasFormatting() bool { return st.formatting }

// Style returns the style record at styleIndex.
func (st *StyleTable) Style(styleIndex int) (StyleRecord, error) {
	if styleIndex < 0 || styleIndex >= len(st.records) {
		return StyleRecord{}, fmt.Errorf("style %d of %d: %w", styleIndex, len(st.records), ErrIndexOutOfRange)
	}
	return st.records[styleIndex], nil
}

// NumberFormat returns the number format a style refers to, taking explicit
// definitions before the standard table.
func (st *StyleTable) NumberFormat(styleIndex int) (NumberFormat, error) {
	rec, err := st.Style(styleIndex)
	if err != nil {
		return NumberFormat{}, err
	}
	if code, ok := st.numFmts[rec.NumFmtID]; ok {
		return NumberFormat{ID: rec.NumFmtID, Code: code}, nil
	}
	if code, ok := StandardFormatCode(rec.NumFmtID); ok {
		return NumberFormat{ID: rec.NumFmtID, Code: code}, nil
	}
	return NumberFormat{}, fmt.Errorf("style %d numFmtId %d: %w", styleIndex, rec.NumFmtID, ErrUnknownFormatID)
}

// NumberFormatCode returns the format code of the style at styleIndex.
func (st *StyleTable) NumberFormatCode(styleIndex int) (string, error) {
	nf, err := st.NumberFormat(styleIndex)
	if err != nil {
		return "", err
	}
	return nf.Code, nil
}

// Font returns the font of a style, nil for the default font (id 0) or when
// formatting detail was not loaded.
func (st *StyleTable) Font(styleIndex int) (*models.Font, error) {
	rec, err := st.Style(styleIndex)
	if err != nil || !st.formatting {
		return nil, err
	}
	return lookupAttr(st.fonts, rec.FontID, "font")
}

// Fill returns the fill of a style, nil for fill id 0 or when formatting
// detail was not loaded.
func (st *StyleTable) Fill(styleIndex int) (*models.Fill, error) {
	rec, err := st.Style(styleIndex)
	if err != nil || !st.formatting {
		return nil, err
	}
	return lookupAttr(st.fills, rec.FillID, "fill")
}

// Border returns the border of a style, nil for border id 0 or when
// formatting detail was not loaded.
func (st *StyleTable) Border(styleIndex int) (*models.Border, error) {
	rec, err := st.Style(styleIndex)
	if err != nil || !st.formatting {
		return nil, err
	}
	return lookupAttr(st.borders, rec.BorderID, "border")
}

func lookupAttr[T any](table []*T, id int, kind string) (*T, error) {
	if id == 0 {
		return nil, nil
	}
	if id < 0 || id >= len(table) {
		return nil, fmt.Errorf("%s %d of %d: %w", kind, id, len(table), ErrIndexOutOfRange)
	}
	return table[id], nil
}

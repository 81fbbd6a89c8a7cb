package parser

import (
	"errors"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// ReadWorkbookSheets returns the sheets declared in the workbook part, in
// declaration order. rels maps each sheet name to its r:id.
func ReadWorkbookSheets(events EventReader) (sheets []models.SheetInfo, rels map[string]string, err error) {
	rels = make(map[string]string)
	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if ev.Kind != StartElement {
			continue
		}
		switch ev.Name {
		case "sheet":
			name, _ := ev.Attr("name")
			id, _ := ev.Attr("sheetId")
			sheets = append(sheets, models.SheetInfo{Name: name, ID: id, Index: len(sheets) + 1})
			if rID, ok := ev.Attr("id"); ok {
				rels[name] = rID
			}
		case "definedNames", "calcPr", "extLst":
			if err := skipElement(events, ev); err != nil {
				return nil, nil, err
			}
		}
	}
	return sheets, rels, nil
}

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// ReadRelationships returns every Relationship element of a .rels part.
func ReadRelationships(events EventReader) ([]Relationship, error) {
	var out []Relationship
	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if ev.Kind != StartElement || ev.Name != "Relationship" {
			continue
		}
		var rel Relationship
		rel.ID, _ = ev.Attr("Id")
		rel.Type, _ = ev.Attr("Type")
		rel.Target, _ = ev.Attr("Target")
		out = append(out, rel)
	}
}

// ResolveTarget resolves a relationship target against the directory of the
// part that declared it. Absolute targets are package-rooted.
func ResolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(baseDir, target))
}

var externalLinkRelsPattern = regexp.MustCompile(`^xl/externalLinks/_rels/([^/]+)$`)

var externalLinkNumber = regexp.MustCompile(`(\d+)\.xml\.rels$`)

// ExternalLinkPart is a relationships part belonging to an external link.
type ExternalLinkPart struct {
	Path string
	ID   int
}

// ExternalLinkParts picks the external-link relationship parts out of a list
// of archive entries. The link id is the number in the part name
// (externalLink3.xml.rels has id 3).
func ExternalLinkParts(entries []string) []ExternalLinkPart {
	var parts []ExternalLinkPart
	for _, name := range entries {
		m := externalLinkRelsPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		id := 0
		if n := externalLinkNumber.FindStringSubmatch(m[1]); n != nil {
			id, _ = strconv.Atoi(n[1])
		}
		parts = append(parts, ExternalLinkPart{Path: name, ID: id})
	}
	return parts
}

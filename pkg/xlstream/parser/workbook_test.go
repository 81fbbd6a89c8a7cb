package parser

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

func TestReadWorkbookSheets(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<bookViews><workbookView/></bookViews>
<sheets>
<sheet name="Data" sheetId="1" r:id="rId1"/>
<sheet name="R&amp;D" sheetId="4" r:id="rId2"/>
</sheets>
<definedNames><definedName name="_xlnm.Print_Area" localSheetId="0"><sheet/></definedName></definedNames>
<calcPr calcId="191029"/>
</workbook>`

	sheets, rels, err := ReadWorkbookSheets(tokenEvents(doc))
	require.NoError(t, err)

	assert.Equal(t, []models.SheetInfo{
		{Name: "Data", ID: "1", Index: 1},
		{Name: "R&D", ID: "4", Index: 2},
	}, sheets)
	assert.Equal(t, map[string]string{"Data": "rId1", "R&D": "rId2"}, rels)
}

func TestReadRelationships(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/data.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="/xl/styles.xml"/>
</Relationships>`

	rels, err := ReadRelationships(tokenEvents(doc))
	require.NoError(t, err)

	require.Len(t, rels, 2)
	assert.Equal(t, "rId2", rels[0].ID)
	assert.Equal(t, "worksheets/data.xml", rels[0].Target)
	assert.Equal(t, "/xl/styles.xml", rels[1].Target)
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		base, target, want string
	}{
		{"xl", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl", "/xl/worksheets/sheet2.xml", "xl/worksheets/sheet2.xml"},
		{"xl/worksheets", "../drawings/drawing1.xml", "xl/drawings/drawing1.xml"},
		{"xl", "./sheet.xml", "xl/sheet.xml"},
	}

	for _, tt := range tests {
		if got := ResolveTarget(tt.base, tt.target); got != tt.want {
			t.Errorf("ResolveTarget(%q, %q) = %q, expected %q", tt.base, tt.target, got, tt.want)
		}
	}
}

func TestExternalLinkParts(t *testing.T) {
	entries := []string{
		"xl/externalLinks/_rels/externalLink1.xml.rels",
		"xl/externalLinks/_rels/externalLink12.xml.rels",
		"xl/externalLinks/externalLink1.xml",
		"xl/worksheets/_rels/sheet1.xml.rels",
	}

	parts := ExternalLinkParts(entries)

	assert.Equal(t, []ExternalLinkPart{
		{Path: "xl/externalLinks/_rels/externalLink1.xml.rels", ID: 1},
		{Path: "xl/externalLinks/_rels/externalLink12.xml.rels", ID: 12},
	}, parts)
}

func TestZipArchive(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"xl/workbook.xml", "[Content_Types].xml"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("<x/>"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	a, err := NewZipArchive(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, []string{"[Content_Types].xml", "xl/workbook.xml"}, a.Entries())
	assert.True(t, a.Exists(WorkbookPath))
	assert.False(t, a.Exists(StylesPath))

	rc, err := a.Open(WorkbookPath)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "<x/>", string(data))

	_, err = a.Open(StylesPath)
	assert.ErrorIs(t, err, ErrArchiveEntryNotFound)
	assert.NoError(t, a.Close())
}

func TestSheetPath(t *testing.T) {
	assert.Equal(t, "xl/worksheets/sheet3.xml", SheetPath(3))
}

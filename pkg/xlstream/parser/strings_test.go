package parser

import (
	"errors"
	"strings"
	"testing"
)

func xmlEvents(doc string) EventReader {
	return NewEventReader(strings.NewReader(doc))
}

func tokenEvents(doc string) EventReader {
	return NewTokenEventReader(strings.NewReader(doc))
}

func TestReadSharedStrings(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="5" uniqueCount="5">
<si><t>Header</t></si>
<si><r><rPr><b/></rPr><t>Rich</t></r><r><t>Text</t></r></si>
<si/>
<si><t>Tom &amp; Jerry</t></si>
<si><t>東京</t><rPh sb="0" eb="2"><t>トウキョウ</t></rPh><phoneticPr fontId="1"/></si>
</sst>`

	sst, err := ReadSharedStrings(xmlEvents(doc))
	if err != nil {
		t.Fatalf("ReadSharedStrings failed: %v", err)
	}

	want := []string{"Header", "RichText", "", "Tom & Jerry", "東京"}
	if sst.Len() != len(want) {
		t.Fatalf("Expected %d strings, got %d: %q", len(want), sst.Len(), sst.Strings())
	}
	for i, w := range want {
		got, err := sst.Lookup(i)
		if err != nil {
			t.Fatalf("Lookup(%d) error: %v", i, err)
		}
		if got != w {
			t.Errorf("Lookup(%d) = %q, expected %q", i, got, w)
		}
	}
}

func TestReadSharedStringsPreservesSpace(t *testing.T) {
	doc := `<sst count="3" uniqueCount="3">
<si><t xml:space="preserve">  lead and trail  </t></si>
<si><r><t xml:space="preserve">a </t></r><r><t>b</t></r></si>
<si><r><rPr><b/></rPr><t>Hello</t></r><r><t xml:space="preserve"> world</t></r></si>
</sst>`

	sst, err := ReadSharedStrings(xmlEvents(doc))
	if err != nil {
		t.Fatalf("ReadSharedStrings failed: %v", err)
	}

	want := []string{"  lead and trail  ", "a b", "Hello world"}
	if sst.Len() != len(want) {
		t.Fatalf("Expected %d strings, got %d: %q", len(want), sst.Len(), sst.Strings())
	}
	for i, w := range want {
		if got, _ := sst.Lookup(i); got != w {
			t.Errorf("Lookup(%d) = %q, expected %q", i, got, w)
		}
	}
}

func TestSharedStringLookupOutOfRange(t *testing.T) {
	sst := NewSharedStringTable([]string{"a", "b"})

	for _, i := range []int{-1, 2, 100} {
		if _, err := sst.Lookup(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Lookup(%d) error = %v, expected ErrIndexOutOfRange", i, err)
		}
	}
}

func TestReadSharedStringsUnterminated(t *testing.T) {
	events := NewSliceEventReader([]Event{
		{Kind: StartElement, Name: "sst"},
		{Kind: StartElement, Name: "si"},
		{Kind: StartElement, Name: "t"},
		{Kind: Text, Text: "cut"},
	})

	if _, err := ReadSharedStrings(events); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("Expected ErrMalformedDocument, got %v", err)
	}
}

func TestReadSharedStringsEmpty(t *testing.T) {
	sst, err := ReadSharedStrings(xmlEvents(`<sst count="0" uniqueCount="0"/>`))
	if err != nil {
		t.Fatalf("ReadSharedStrings failed: %v", err)
	}
	if sst.Len() != 0 {
		t.Errorf("Expected empty table, got %q", sst.Strings())
	}
}

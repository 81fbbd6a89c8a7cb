package parser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func collectEvents(t *testing.T, r EventReader) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestEventReader(t *testing.T) {
	doc := `<?xml version="1.0"?><x:sheet xmlns:x="urn:x" xmlns:r="urn:r"><x:c r="A1" r:id="rId1"><x:v>1 &lt; 2</x:v></x:c><x:c r="B1"/></x:sheet>`

	readers := map[string]func(string) EventReader{
		"decoder":   xmlEvents,
		"tokenizer": tokenEvents,
	}
	for name, newReader := range readers {
		t.Run(name, func(t *testing.T) {
			events := collectEvents(t, newReader(doc))

			require.Len(t, events, 8)
			assert.Equal(t, StartElement, events[0].Kind)
			assert.Equal(t, "sheet", events[0].Name)

			c := events[1]
			assert.Equal(t, "c", c.Name)
			ref, ok := c.Attr("r")
			assert.True(t, ok)
			assert.Equal(t, "A1", ref)
			id, ok := c.Attr("id")
			assert.True(t, ok)
			assert.Equal(t, "rId1", id)

			assert.Equal(t, "v", events[2].Name)
			assert.Equal(t, Event{Kind: Text, Text: "1 < 2"}, events[3])
			assert.Equal(t, Event{Kind: EndElement, Name: "v"}, events[4])
			assert.Equal(t, Event{Kind: EndElement, Name: "c"}, events[5])

			assert.Equal(t, "c", events[6].Name)
			assert.True(t, events[6].SelfClosing)
			assert.Equal(t, Event{Kind: EndElement, Name: "sheet"}, events[7])
		})
	}
}

func TestEventReaderKeepsText(t *testing.T) {
	doc := `<si><t xml:space="preserve">  a </t><t></t><!-- note --><t><![CDATA[<b>]]></t></si>`

	events := collectEvents(t, xmlEvents(doc))

	assert.Equal(t, []Event{
		{Kind: StartElement, Name: "si"},
		{Kind: StartElement, Name: "t", Attrs: []Attr{{Name: "space", Value: "preserve"}}},
		{Kind: Text, Text: "  a "},
		{Kind: EndElement, Name: "t"},
		{Kind: StartElement, Name: "t", SelfClosing: true},
		{Kind: StartElement, Name: "t"},
		{Kind: Text, Text: "<b>"},
		{Kind: EndElement, Name: "t"},
		{Kind: EndElement, Name: "si"},
	}, events)
}

func TestEventReaderDropsNamespaceDeclarations(t *testing.T) {
	events := collectEvents(t, xmlEvents(`<row xmlns="urn:m" xmlns:r="urn:r" r="3"/>`))

	require.Len(t, events, 1)
	assert.True(t, events[0].SelfClosing)
	assert.Equal(t, []Attr{{Name: "r", Value: "3"}}, events[0].Attrs)
}

func TestEventReaderMalformed(t *testing.T) {
	r := xmlEvents(`<sst><si><t>cut`)
	var err error
	for err == nil {
		_, err = r.Next()
	}
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestEventReaderByteOrderMarks(t *testing.T) {
	doc := `<?xml version="1.0"?><sst><si><t>Grüße</t></si></sst>`
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(doc)
	require.NoError(t, err)
	declared, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(
		`<?xml version="1.0" encoding="UTF-16"?><sst><si><t>Grüße</t></si></sst>`)
	require.NoError(t, err)

	for name, input := range map[string]string{
		"utf-8 bom":         "\uFEFF" + doc,
		"utf-16le":          utf16,
		"utf-16be declared": declared,
	} {
		t.Run(name, func(t *testing.T) {
			sst, err := ReadSharedStrings(NewEventReader(strings.NewReader(input)))
			require.NoError(t, err)
			assert.Equal(t, []string{"Grüße"}, sst.Strings())
		})
	}
}

func TestSkipElement(t *testing.T) {
	r := NewSliceEventReader([]Event{
		{Kind: StartElement, Name: "extLst"},
		{Kind: StartElement, Name: "ext"},
		{Kind: StartElement, Name: "sheet", SelfClosing: true},
		{Kind: EndElement, Name: "ext"},
		{Kind: EndElement, Name: "extLst"},
		{Kind: StartElement, Name: "after", SelfClosing: true},
	})
	start, err := r.Next()
	require.NoError(t, err)

	require.NoError(t, skipElement(r, start))

	next, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "after", next.Name)
}

func TestSkipElementUnterminated(t *testing.T) {
	r := NewSliceEventReader([]Event{{Kind: StartElement, Name: "ext"}})
	start, _ := r.Next()

	err := skipElement(r, start)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "start", StartElement.String())
	assert.Equal(t, "end", EndElement.String())
	assert.Equal(t, "text", Text.String())
	assert.Equal(t, "EventKind(9)", EventKind(9).String())
}

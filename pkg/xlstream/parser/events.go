package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/muktihari/xmltokenizer"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EventKind is the kind of a structural markup event.
type EventKind int

const (
	StartElement EventKind = iota
	EndElement
	Text
)

func (k EventKind) String() string {
	switch k {
	case StartElement:
		return "start"
	case EndElement:
		return "end"
	case Text:
		return "text"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Attr is an element attribute with its namespace prefix removed.
type Attr struct {
	Name  string
	Value string
}

// Event is one structural markup event. Name is the local element name for
// start and end events; Text holds character data for text events.
// Self-closing elements produce a start event with SelfClosing set and no end
// event.
type Event struct {
	Kind        EventKind
	Name        string
	Attrs       []Attr
	SelfClosing bool
	Text        string
}

// Attr returns the value of the named attribute.
func (e *Event) Attr(name string) (string, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return e.Attrs[i].Value, true
		}
	}
	return "", false
}

// EventReader yields markup events in document order. Next returns io.EOF
// after the last event.
type EventReader interface {
	Next() (Event, error)
}

// utf8Reader decodes a part that starts with a byte order mark, UTF-8 or
// UTF-16, to UTF-8 without the mark.
func utf8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// xmlEventReader adapts an encoding/xml Decoder to EventReader. Character
// data is delivered exactly as written.
type xmlEventReader struct {
	dec    *xml.Decoder
	peeked xml.Token
}

// NewEventReader returns an EventReader over r for parts whose text content
// matters, such as shared strings and worksheets. An element that closes
// right after it opens is reported as self-closing.
func NewEventReader(r io.Reader) EventReader {
	dec := xml.NewDecoder(utf8Reader(r))
	// The input is UTF-8 by now, whatever the declaration says.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return &xmlEventReader{dec: dec}
}

func (r *xmlEventReader) token() (xml.Token, error) {
	if r.peeked != nil {
		tok := r.peeked
		r.peeked = nil
		return tok, nil
	}
	tok, err := r.dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return xml.CopyToken(tok), nil
}

func (r *xmlEventReader) Next() (Event, error) {
	for {
		tok, err := r.token()
		if err != nil {
			return Event{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			ev := Event{Kind: StartElement, Name: t.Name.Local}
			for _, a := range t.Attr {
				// Namespace declarations would shadow attributes such as r.
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				ev.Attrs = append(ev.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			next, err := r.token()
			if err == io.EOF {
				return Event{}, fmt.Errorf("%w: unterminated <%s>", ErrMalformedDocument, ev.Name)
			}
			if err != nil {
				return Event{}, err
			}
			if end, ok := next.(xml.EndElement); ok && end.Name == t.Name {
				ev.SelfClosing = true
			} else {
				r.peeked = next
			}
			return ev, nil
		case xml.EndElement:
			return Event{Kind: EndElement, Name: t.Name.Local}, nil
		case xml.CharData:
			return Event{Kind: Text, Text: string(t)}, nil
		}
	}
}

// tokenEventReader adapts an xmltokenizer.Tokenizer to EventReader.
type tokenEventReader struct {
	tok     *xmltokenizer.Tokenizer
	pending *Event
}

// NewTokenEventReader returns an EventReader for parts that carry their
// content in attributes: the workbook manifest, relationships, styles and
// the dimension pass. The tokenizer trims character data, so text events
// from this reader lose leading and trailing white space.
func NewTokenEventReader(r io.Reader) EventReader {
	return &tokenEventReader{tok: xmltokenizer.New(utf8Reader(r))}
}

func (r *tokenEventReader) Next() (Event, error) {
	if r.pending != nil {
		ev := *r.pending
		r.pending = nil
		return ev, nil
	}
	for {
		token, err := r.tok.Token()
		if err == io.EOF {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		// Declarations, comments and doctypes are not elements.
		if len(token.Name.Full) == 0 || token.Name.Full[0] == '?' || token.Name.Full[0] == '!' {
			continue
		}
		if token.IsEndElement() {
			return Event{Kind: EndElement, Name: localName(token.Name.Full)}, nil
		}

		ev := Event{
			Kind:        StartElement,
			Name:        localName(token.Name.Full),
			SelfClosing: token.SelfClosing,
		}
		if len(token.Attrs) > 0 {
			ev.Attrs = make([]Attr, len(token.Attrs))
			for i := range token.Attrs {
				ev.Attrs[i] = Attr{
					Name:  localName(token.Attrs[i].Name.Full),
					Value: unescape(token.Attrs[i].Value),
				}
			}
		}
		if !token.SelfClosing && len(token.Data) > 0 {
			r.pending = &Event{Kind: Text, Text: unescape(token.Data)}
		}
		return ev, nil
	}
}

// localName strips the closing slash and namespace prefix from a raw name.
func localName(full []byte) string {
	full = bytes.TrimPrefix(full, []byte{'/'})
	if i := bytes.LastIndexByte(full, ':'); i >= 0 {
		full = full[i+1:]
	}
	return string(full)
}

func unescape(b []byte) string {
	if bytes.IndexByte(b, '&') < 0 {
		return string(b)
	}
	return html.UnescapeString(string(b))
}

// skipElement consumes events up to and including the end of the element
// whose start event was just read.
func skipElement(events EventReader, start Event) error {
	if start.SelfClosing {
		return nil
	}
	depth := 1
	for depth > 0 {
		ev, err := events.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: unterminated <%s>", ErrMalformedDocument, start.Name)
			}
			return err
		}
		switch {
		case ev.Kind == StartElement && !ev.SelfClosing:
			depth++
		case ev.Kind == EndElement:
			depth--
		}
	}
	return nil
}

// sliceEventReader replays a fixed event list; used to drive the state
// machines without a tokenizer.
type sliceEventReader struct {
	events []Event
	pos    int
}

// NewSliceEventReader returns an EventReader over the given events.
func NewSliceEventReader(events []Event) EventReader {
	return &sliceEventReader{events: events}
}

func (r *sliceEventReader) Next() (Event, error) {
	if r.pos >= len(r.events) {
		return Event{}, io.EOF
	}
	ev := r.events[r.pos]
	r.pos++
	return ev, nil
}

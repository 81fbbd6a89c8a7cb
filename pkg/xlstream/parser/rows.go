package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"go.uber.org/zap"
)

// DateConverter turns a date serial number into a calendar value.
type DateConverter func(serial float64) (time.Time, error)

// RowConfig carries the workbook-level collaborators of a RowStream.
type RowConfig struct {
	Styles     *StyleTable
	Classifier *FormatClassifier
	// SharedStrings is called on the first shared-string cell.
	SharedStrings func() (*SharedStringTable, error)
	Dates         DateConverter
	// Formatting attaches font, fill and border attributes to cells.
	Formatting bool
	Logger     *zap.Logger
}

// valuePart is the cell sub-element whose text is being collected.
type valuePart int

const (
	partNone valuePart = iota
	partValue
	partFormula
	partInline
)

// rowState is the mutable state of one pass over a sheet.
type rowState struct {
	rowNum  int // 1-based number of the row being built or last yielded
	inRow   bool
	row     models.Row
	column  int // next 0-based column slot of row
	gapRows int // empty rows owed before the next yield
	ready   bool

	cell       *models.Cell
	cellKind   string // t attribute
	cellType   models.ValueType
	part       valuePart
	text       strings.Builder
	inlineText bool
	phonetic   int

	formulaGroup int
	anchoring    bool
	anchors      map[int]FormulaAnchor
}

func newRowState() *rowState {
	return &rowState{anchors: make(map[int]FormulaAnchor)}
}

// RowStream yields the rows of one sheet, pulling markup events only as far as
// the next row boundary.
type RowStream struct {
	events  EventReader
	closer  io.Closer
	cfg     RowConfig
	state   *rowState
	strings *SharedStringTable
	row     models.Row
	err     error
	done    bool
}

// NewRowStream returns a stream over events. closer, when not nil, is closed
// by Close.
func NewRowStream(events EventReader, closer io.Closer, cfg RowConfig) *RowStream {
	if cfg.Classifier == nil {
		cfg.Classifier = NewFormatClassifier(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &RowStream{
		events: events,
		closer: closer,
		cfg:    cfg,
		state:  newRowState(),
	}
}

// Next advances to the next row. It returns false at the end of the sheet or
// on error; check Err afterwards.
func (s *RowStream) Next() bool {
	if s.done {
		return false
	}
	st := s.state
	for {
		if st.gapRows > 0 {
			st.gapRows--
			s.row = models.Row{}
			return true
		}
		if st.ready {
			st.ready = false
			s.row = st.row
			st.row = nil
			return true
		}

		ev, err := s.events.Next()
		if errors.Is(err, io.EOF) {
			if st.inRow {
				s.fail(fmt.Errorf("%w: unterminated row %d", ErrMalformedDocument, st.rowNum))
			}
			s.done = true
			return false
		}
		if err != nil {
			s.fail(err)
			return false
		}
		if err := s.handleEvent(st, &ev); err != nil {
			s.fail(fmt.Errorf("row %d: %w", st.rowNum, err))
			return false
		}
	}
}

// Row returns the row read by the last successful Next.
func (s *RowStream) Row() models.Row { return s.row }

// Err returns the error that stopped the stream, if any.
func (s *RowStream) Err() error { return s.err }

// Close releases the underlying entry. It is safe to call more than once.
func (s *RowStream) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// All returns an iterator over the remaining rows. The stream is closed when
// the loop ends, whether or not it ran to completion. A non-nil error is the
// last value yielded.
func (s *RowStream) All() iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.row, nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

func (s *RowStream) fail(err error) {
	s.err = err
	s.done = true
	s.row = nil
}

// handleEvent applies one markup event to st.
func (s *RowStream) handleEvent(st *rowState, ev *Event) error {
	switch ev.Kind {
	case StartElement:
		return s.handleStart(st, ev)
	case EndElement:
		return s.handleEnd(st, ev)
	case Text:
		if st.part == partValue || st.part == partFormula ||
			(st.part == partInline && st.inlineText && st.phonetic == 0) {
			st.text.WriteString(ev.Text)
		}
	}
	return nil
}

func (s *RowStream) handleStart(st *rowState, ev *Event) error {
	if ev.Name == "row" {
		return s.startRow(st, ev)
	}
	if !st.inRow {
		return nil
	}

	switch ev.Name {
	case "c":
		return s.startCell(st, ev)
	case "v":
		if st.cell != nil && !ev.SelfClosing {
			st.part = partValue
			st.text.Reset()
		}
	case "f":
		if st.cell != nil {
			return s.startFormula(st, ev)
		}
	case "is":
		if st.cell != nil && !ev.SelfClosing {
			st.part = partInline
			st.text.Reset()
		}
	case "t":
		if st.part == partInline && !ev.SelfClosing {
			st.inlineText = true
		}
	case "rPh":
		if st.part == partInline && !ev.SelfClosing {
			st.phonetic++
		}
	}
	return nil
}

func (s *RowStream) handleEnd(st *rowState, ev *Event) error {
	switch ev.Name {
	case "row":
		if !st.inRow {
			return nil
		}
		st.inRow = false
		st.cell = nil
		st.ready = true
	case "c":
		st.cell = nil
		st.part = partNone
	case "v":
		if st.part == partValue {
			st.part = partNone
			return s.setValue(st, st.text.String())
		}
	case "f":
		if st.part == partFormula {
			st.part = partNone
			return s.endFormula(st)
		}
	case "t":
		st.inlineText = false
	case "rPh":
		if st.phonetic > 0 {
			st.phonetic--
		}
	case "is":
		if st.part == partInline {
			st.part = partNone
			st.cell.Value = st.text.String()
		}
	}
	return nil
}

func (s *RowStream) startRow(st *rowState, ev *Event) error {
	st.rowNum++
	if r, ok := ev.Attr("r"); ok {
		declared, err := strconv.Atoi(r)
		if err != nil {
			return fmt.Errorf("%w: row number %q", ErrMalformedDocument, r)
		}
		if declared > st.rowNum {
			st.gapRows += declared - st.rowNum
			st.rowNum = declared
		}
	}
	st.row = models.Row{}
	st.column = 0
	st.cell = nil
	if ev.SelfClosing {
		st.ready = true
		return nil
	}
	st.inRow = true
	return nil
}

func (s *RowStream) startCell(st *rowState, ev *Event) error {
	if ref, ok := ev.Attr("r"); ok {
		label, _ := splitCellRef(ref)
		col, err := ColumnIndex(label)
		if err != nil {
			return fmt.Errorf("cell %q: %w", ref, err)
		}
		if col < st.column {
			return fmt.Errorf("%w: cell %s out of order", ErrMalformedDocument, ref)
		}
		for st.column < col {
			st.row = append(st.row, nil)
			st.column++
		}
	}
	if st.column >= MaxColumns {
		return fmt.Errorf("column %d: %w", st.column, ErrIndexOutOfRange)
	}

	cell := &models.Cell{Column: st.column}
	st.row = append(st.row, cell)
	st.column++
	st.cell = cell
	st.cellKind, _ = ev.Attr("t")
	st.cellType = ""
	st.part = partNone

	styleAttr, styled := ev.Attr("s")
	if styled && (s.cfg.Formatting || (st.cellKind != "s" && st.cellKind != "b")) {
		style, err := strconv.Atoi(styleAttr)
		if err != nil {
			return fmt.Errorf("%w: style %q", ErrMalformedDocument, styleAttr)
		}
		if err := s.resolveStyle(st, cell, style); err != nil {
			return err
		}
	}
	if ev.SelfClosing {
		st.cell = nil
	}
	return nil
}

func (s *RowStream) resolveStyle(st *rowState, cell *models.Cell, style int) error {
	code, err := s.cfg.Styles.NumberFormatCode(style)
	if err != nil {
		return err
	}
	st.cellType = s.cfg.Classifier.Classify(code)
	cell.Type = st.cellType
	if !s.cfg.Formatting {
		return nil
	}
	if cell.Font, err = s.cfg.Styles.Font(style); err != nil {
		return err
	}
	if cell.Fill, err = s.cfg.Styles.Fill(style); err != nil {
		return err
	}
	cell.Border, err = s.cfg.Styles.Border(style)
	return err
}

// startFormula handles an f element. Plain formulas collect their text.
// Shared formulas either open a new group, whose text becomes the template,
// or are translated from the group's anchor right away.
func (s *RowStream) startFormula(st *rowState, ev *Event) error {
	st.anchoring = false
	if t, _ := ev.Attr("t"); t == "shared" {
		si, ok := ev.Attr("si")
		if !ok {
			return fmt.Errorf("%w: shared formula without si", ErrMalformedDocument)
		}
		group, err := strconv.Atoi(si)
		if err != nil {
			return fmt.Errorf("%w: shared formula index %q", ErrMalformedDocument, si)
		}
		if anchor, ok := st.anchors[group]; ok {
			st.cell.Formula, err = TranslateFormula(anchor, st.rowNum, st.cell.Column)
			if err != nil {
				return err
			}
			if !ev.SelfClosing {
				// Any text here is ignored; the anchor is authoritative.
				st.part = partNone
				st.text.Reset()
			}
			return nil
		}
		st.formulaGroup = group
		st.anchoring = true
	}
	if ev.SelfClosing {
		return s.endFormula(st)
	}
	st.part = partFormula
	st.text.Reset()
	return nil
}

func (s *RowStream) endFormula(st *rowState) error {
	text := st.text.String()
	st.text.Reset()
	if st.anchoring {
		st.anchors[st.formulaGroup] = FormulaAnchor{
			Row:      st.rowNum,
			Column:   st.cell.Column,
			Template: text,
		}
		st.anchoring = false
		s.cfg.Logger.Debug("shared formula anchored",
			zap.Int("group", st.formulaGroup), zap.Int("row", st.rowNum), zap.Int("column", st.cell.Column))
	}
	st.cell.Formula = text
	return nil
}

// setValue converts the collected v text according to the cell kind and the
// type resolved from its style. An empty v leaves the value nil.
func (s *RowStream) setValue(st *rowState, text string) error {
	if text == "" {
		return nil
	}
	cell := st.cell
	switch st.cellKind {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("%w: shared string index %q", ErrMalformedDocument, text)
		}
		if s.strings == nil {
			if s.cfg.SharedStrings == nil {
				return fmt.Errorf("shared strings: %w", ErrArchiveEntryNotFound)
			}
			if s.strings, err = s.cfg.SharedStrings(); err != nil {
				return err
			}
		}
		cell.Value, err = s.strings.Lookup(idx)
		return err
	case "", "n":
	default:
		cell.Value = text
		return nil
	}

	switch st.cellType {
	case models.TypeFloat, models.TypePercentage, models.TypeTime, models.TypeDateTime:
		f, err := parseNumber(text)
		if err != nil {
			return err
		}
		cell.Value = f
	case models.TypeDate:
		f, err := parseNumber(text)
		if err != nil {
			return err
		}
		if s.cfg.Dates == nil {
			cell.Value = f
			return nil
		}
		d, err := s.cfg.Dates(f)
		if err != nil {
			return fmt.Errorf("date serial %v: %w", f, err)
		}
		cell.Value = d
	default:
		cell.Value = text
	}
	return nil
}

func parseNumber(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: numeric value %q", ErrMalformedDocument, text)
	}
	return f, nil
}

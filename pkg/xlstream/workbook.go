package xlstream

import (
	"fmt"
	"io"
	"sync"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
	"go.uber.org/zap"
)

// Workbook is an opened workbook package. Its style and shared-string tables
// are loaded once and shared read-only by all sheets, so sheets may be read
// from different goroutines.
type Workbook struct {
	archive    parser.Archive
	closer     io.Closer
	opts       Options
	logger     *zap.Logger
	styles     *parser.StyleTable
	classifier *parser.FormatClassifier

	sheetsOnce sync.Once
	sheets     []*Sheet
	sheetsErr  error

	stringsOnce sync.Once
	strings     *parser.SharedStringTable
	stringsErr  error

	linksOnce sync.Once
	links     []models.ExternalLink
	linksErr  error
}

// Open opens the workbook file at path and loads its styles. The
// shared-string table is not read here: a missing or malformed
// sharedStrings part surfaces on the first shared-string cell, or from
// SharedStrings, rather than failing Open.
func Open(path string, opts Options) (*Workbook, error) {
	a, err := parser.OpenZipArchive(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	wb, err := newWorkbook(a, a, opts)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return wb, nil
}

// OpenReader opens a workbook from an in-memory or random-access source.
func OpenReader(r io.ReaderAt, size int64, opts Options) (*Workbook, error) {
	a, err := parser.NewZipArchive(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return newWorkbook(a, nil, opts)
}

// NewWorkbook opens a workbook stored in any Archive implementation.
func NewWorkbook(a parser.Archive, opts Options) (*Workbook, error) {
	return newWorkbook(a, nil, opts)
}

func newWorkbook(a parser.Archive, closer io.Closer, opts Options) (*Workbook, error) {
	wb := &Workbook{
		archive:    a,
		closer:     closer,
		opts:       opts,
		logger:     opts.logger(),
		classifier: parser.NewFormatClassifier(opts.FormatOverrides),
	}

	formatting := opts.ShouldIncludeFormatting()
	err := wb.readPart(parser.StylesPath, func(events parser.EventReader) error {
		st, err := parser.ReadStyles(events, formatting)
		wb.styles = st
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load styles: %w", err)
	}
	wb.logger.Debug("styles loaded",
		zap.Int("cell_xfs", wb.styles.Len()),
		zap.Bool("formatting", formatting))
	return wb, nil
}

// readPart opens an attribute-only entry, hands its events to fn and closes it.
func (wb *Workbook) readPart(path string, fn func(parser.EventReader) error) error {
	return wb.readPartWith(path, parser.NewTokenEventReader, fn)
}

// readTextPart is readPart for entries whose character data is kept verbatim.
func (wb *Workbook) readTextPart(path string, fn func(parser.EventReader) error) error {
	return wb.readPartWith(path, parser.NewEventReader, fn)
}

func (wb *Workbook) readPartWith(path string, newEvents func(io.Reader) parser.EventReader, fn func(parser.EventReader) error) error {
	if !wb.archive.Exists(path) {
		return fmt.Errorf("%s: %w", path, ErrArchiveEntryNotFound)
	}
	rc, err := wb.archive.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := fn(newEvents(rc)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Sheets returns the sheets of the workbook in declaration order.
func (wb *Workbook) Sheets() ([]*Sheet, error) {
	wb.sheetsOnce.Do(func() {
		wb.sheets, wb.sheetsErr = wb.readSheets()
	})
	return wb.sheets, wb.sheetsErr
}

func (wb *Workbook) readSheets() ([]*Sheet, error) {
	var (
		infos  []models.SheetInfo
		relIDs map[string]string
	)
	err := wb.readPart(parser.WorkbookPath, func(events parser.EventReader) error {
		var err error
		infos, relIDs, err = parser.ReadWorkbookSheets(events)
		return err
	})
	if err != nil {
		return nil, err
	}

	var targets map[string]string
	if wb.opts.ShouldResolveSheetPaths() && wb.archive.Exists(parser.WorkbookRelsPath) {
		targets = make(map[string]string)
		err := wb.readPart(parser.WorkbookRelsPath, func(events parser.EventReader) error {
			rels, err := parser.ReadRelationships(events)
			for _, rel := range rels {
				targets[rel.ID] = parser.ResolveTarget("xl", rel.Target)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	sheets := make([]*Sheet, len(infos))
	for i, info := range infos {
		p := parser.SheetPath(info.Index)
		if target, ok := targets[relIDs[info.Name]]; ok {
			p = target
		}
		sheets[i] = &Sheet{wb: wb, info: info, path: p}
	}
	wb.logger.Debug("sheets discovered", zap.Int("count", len(sheets)))
	return sheets, nil
}

// Sheet returns the sheet with the given name.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	sheets, err := wb.Sheets()
	if err != nil {
		return nil, err
	}
	for _, s := range sheets {
		if s.info.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrSheetNotFound)
}

// SheetList returns the identity of every sheet in declaration order.
func (wb *Workbook) SheetList() ([]models.SheetInfo, error) {
	sheets, err := wb.Sheets()
	if err != nil {
		return nil, err
	}
	out := make([]models.SheetInfo, len(sheets))
	for i, s := range sheets {
		out[i] = s.info
	}
	return out, nil
}

// SharedStrings returns the shared-string table. It is read on first use and
// must not be modified.
func (wb *Workbook) SharedStrings() ([]string, error) {
	sst, err := wb.sharedStringTable()
	if err != nil {
		return nil, err
	}
	return sst.Strings(), nil
}

func (wb *Workbook) sharedStringTable() (*parser.SharedStringTable, error) {
	wb.stringsOnce.Do(func() {
		wb.stringsErr = wb.readTextPart(parser.SharedStringsPath, func(events parser.EventReader) error {
			sst, err := parser.ReadSharedStrings(events)
			wb.strings = sst
			return err
		})
		if wb.stringsErr == nil {
			wb.logger.Debug("shared strings loaded", zap.Int("count", wb.strings.Len()))
		}
	})
	return wb.strings, wb.stringsErr
}

// ExternalLinks returns the targets declared by the workbook's external-link
// relationship parts.
func (wb *Workbook) ExternalLinks() ([]models.ExternalLink, error) {
	wb.linksOnce.Do(func() {
		for _, part := range parser.ExternalLinkParts(wb.archive.Entries()) {
			err := wb.readPart(part.Path, func(events parser.EventReader) error {
				rels, err := parser.ReadRelationships(events)
				for _, rel := range rels {
					wb.links = append(wb.links, models.ExternalLink{ID: part.ID, Target: rel.Target})
				}
				return err
			})
			if err != nil {
				wb.links, wb.linksErr = nil, err
				return
			}
		}
	})
	return wb.links, wb.linksErr
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	if wb.closer == nil {
		return nil
	}
	return wb.closer.Close()
}

func (wb *Workbook) rowConfig() parser.RowConfig {
	return parser.RowConfig{
		Styles:        wb.styles,
		Classifier:    wb.classifier,
		SharedStrings: wb.sharedStringTable,
		Dates:         wb.opts.dateConverter(),
		Formatting:    wb.opts.ShouldIncludeFormatting(),
		Logger:        wb.logger,
	}
}

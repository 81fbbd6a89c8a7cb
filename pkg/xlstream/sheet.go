package xlstream

import (
	"iter"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/parser"
	"go.uber.org/zap"
)

// Sheet is one worksheet of a Workbook.
type Sheet struct {
	wb   *Workbook
	info models.SheetInfo
	path string
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.info.Name }

// Info returns the sheet identity as declared in the workbook part.
func (s *Sheet) Info() models.SheetInfo { return s.info }

// Path returns the archive entry holding the sheet.
func (s *Sheet) Path() string { return s.path }

// Rows opens a new stream over the sheet. Each call reads the sheet from the
// start with its own entry handle. A sheet whose entry is missing streams no
// rows.
func (s *Sheet) Rows() (*RowStream, error) {
	cfg := s.wb.rowConfig()
	if !s.wb.archive.Exists(s.path) {
		s.wb.logger.Warn("sheet entry missing",
			zap.String("sheet", s.info.Name), zap.String("path", s.path))
		return &RowStream{
			RowStream: parser.NewRowStream(parser.NewSliceEventReader(nil), nil, cfg),
			sheet:     s.info.Name,
		}, nil
	}
	rc, err := s.wb.archive.Open(s.path)
	if err != nil {
		return nil, NewSheetError(s.info.Name, "rows", err)
	}
	return &RowStream{
		RowStream: parser.NewRowStream(parser.NewEventReader(rc), rc, cfg),
		sheet:     s.info.Name,
	}, nil
}

// EstimatedRowCount reads the declared dimension of the sheet. ok is false
// when the sheet does not declare one before its data.
func (s *Sheet) EstimatedRowCount() (count int, ok bool, err error) {
	if !s.wb.archive.Exists(s.path) {
		return 0, false, nil
	}
	rc, err := s.wb.archive.Open(s.path)
	if err != nil {
		return 0, false, NewSheetError(s.info.Name, "dimension", err)
	}
	defer rc.Close()
	count, ok, err = parser.EstimateRowCount(parser.NewTokenEventReader(rc))
	if err != nil {
		return 0, false, NewSheetError(s.info.Name, "dimension", err)
	}
	return count, ok, nil
}

// RowStream is a parser.RowStream whose errors name the sheet they came from.
type RowStream struct {
	*parser.RowStream
	sheet string
}

// Err returns the error that stopped the stream, if any.
func (rs *RowStream) Err() error {
	if err := rs.RowStream.Err(); err != nil {
		return NewSheetError(rs.sheet, "rows", err)
	}
	return nil
}

// All returns an iterator over the remaining rows, closing the stream when
// the loop ends.
func (rs *RowStream) All() iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		for row, err := range rs.RowStream.All() {
			if err != nil {
				err = NewSheetError(rs.sheet, "rows", err)
			}
			if !yield(row, err) {
				return
			}
		}
	}
}

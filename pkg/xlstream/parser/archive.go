package parser

import (
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zip"
)

// Well-known entry paths of a workbook package.
const (
	WorkbookPath      = "xl/workbook.xml"
	WorkbookRelsPath  = "xl/_rels/workbook.xml.rels"
	StylesPath        = "xl/styles.xml"
	SharedStringsPath = "xl/sharedStrings.xml"
	ExternalLinksRels = "xl/externalLinks/_rels/"
)

// SheetPath returns the conventional entry path of the sheet with the given
// 1-based ordinal.
func SheetPath(ordinal int) string {
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", ordinal)
}

// Archive exposes the named entries of a document container.
type Archive interface {
	// Entries lists entry paths in sorted order.
	Entries() []string
	// Exists reports whether path names an entry.
	Exists(path string) bool
	// Open returns an independent reader positioned at the start of the entry.
	Open(path string) (io.ReadCloser, error)
}

// ZipArchive is an Archive over a zip container.
type ZipArchive struct {
	files  map[string]*zip.File
	names  []string
	closer io.Closer
}

// OpenZipArchive opens the zip file at path.
func OpenZipArchive(path string) (*ZipArchive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	a := newZipArchive(&rc.Reader)
	a.closer = rc
	return a, nil
}

// NewZipArchive reads the zip directory from r.
func NewZipArchive(r io.ReaderAt, size int64) (*ZipArchive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return newZipArchive(zr), nil
}

func newZipArchive(zr *zip.Reader) *ZipArchive {
	a := &ZipArchive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
		a.names = append(a.names, f.Name)
	}
	sort.Strings(a.names)
	return a
}

func (a *ZipArchive) Entries() []string { return a.names }

func (a *ZipArchive) Exists(path string) bool {
	_, ok := a.files[path]
	return ok
}

func (a *ZipArchive) Open(path string) (io.ReadCloser, error) {
	f, ok := a.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrArchiveEntryNotFound)
	}
	return f.Open()
}

// Close closes the underlying file when the archive was opened by path.
func (a *ZipArchive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

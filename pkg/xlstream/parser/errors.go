package parser

import "errors"

// ErrArchiveEntryNotFound indicates a required document part is absent.
var ErrArchiveEntryNotFound = errors.New("archive entry not found")

// ErrMalformedDocument indicates the markup could not be tokenized or does not
// have the expected structure.
var ErrMalformedDocument = errors.New("malformed document")

// ErrUnknownFormatID indicates a number format id that is neither defined by
// the document nor a standard id.
var ErrUnknownFormatID = errors.New("unknown number format id")

// ErrIndexOutOfRange indicates a shared-string, style or column index outside
// its table.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrInvalidReference indicates a shared formula reference that would move
// outside the sheet when shifted.
var ErrInvalidReference = errors.New("invalid reference")

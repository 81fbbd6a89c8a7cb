package parser

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// EstimateRowCount scans a sheet part for its dimension element and returns
// the last row number it declares. ok is false when the part has no dimension
// before its cell data.
func EstimateRowCount(events EventReader) (count int, ok bool, err error) {
	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		if ev.Kind != StartElement {
			continue
		}
		switch ev.Name {
		case "dimension":
			ref, found := ev.Attr("ref")
			if !found {
				continue
			}
			return lastRowOfRange(ref)
		case "sheetData":
			return 0, false, nil
		}
	}
}

// lastRowOfRange returns the trailing row number of a range such as "A1:C10".
func lastRowOfRange(ref string) (int, bool, error) {
	end := ref
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		end = ref[i+1:]
	}
	_, digits := splitCellRef(strings.ReplaceAll(end, "$", ""))
	if digits == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

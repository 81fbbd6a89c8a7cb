package models

// SheetInfo identifies a sheet declared in the workbook manifest.
type SheetInfo struct {
	// Name is the sheet tab name.
	Name string `json:"name"`
	// ID is the declared sheetId attribute.
	ID string `json:"id"`
	// Index is the 1-based declaration ordinal.
	Index int `json:"index"`
}

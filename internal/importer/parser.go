package importer

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Header aliases, matched case-insensitively after trimming. First header
// cell that hits an alias wins; later duplicates are ignored.
var (
	idAliases     = []string{"id"}
	checkAliases  = []string{"check #", "check_number", "check number"}
	notesAliases  = []string{"notes"}
	statusAliases = []string{"completion status", "completion_status"}
)

// ParseUpload turns an uploaded spreadsheet into a raw cell grid. Format is
// picked off the filename extension: .xlsx, legacy .xls, or .csv.
func ParseUpload(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseExcelFile(data)
	case ".xls":
		return parseXLSFile(data)
	case ".csv":
		return parseCSVFile(data)
	default:
		return nil, &SchemaError{Reason: "unsupported file type: " + filepath.Ext(filename)}
	}
}

func parseExcelFile(data []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &SchemaError{Reason: "unreadable spreadsheet: " + err.Error()}
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	if sheetName == "" {
		return nil, &SchemaError{Reason: "no worksheet present"}
	}
	rows, err := xl.GetRows(sheetName)
	if err != nil {
		return nil, &SchemaError{Reason: "unreadable spreadsheet: " + err.Error()}
	}
	return rows, nil
}

func parseXLSFile(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &SchemaError{Reason: "unreadable spreadsheet: " + err.Error()}
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, &SchemaError{Reason: "no worksheet present"}
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, []string{})
			continue
		}
		cells := make([]string, row.LastCol()+1)
		for j := row.FirstCol(); j <= row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func parseCSVFile(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &SchemaError{Reason: "unreadable spreadsheet: " + err.Error()}
	}
	return rows, nil
}

// ParseSheet reads row 1 as headers, resolves the recognized columns, and
// extracts the data rows. Blank rows (all extracted values empty) are
// dropped entirely; they never show up as warnings or skips downstream.
//
// Fails with a SchemaError when the header carries neither an id nor a
// check-number column, or neither a notes nor a status column — the importer
// only ever matches on the former pair and writes the latter pair, so a
// sheet missing either side cannot do anything useful.
func ParseSheet(grid [][]string) (*Sheet, error) {
	if len(grid) == 0 {
		return nil, &SchemaError{Reason: "empty file: no header row"}
	}

	cols := Columns{ID: -1, CheckNumber: -1, Notes: -1, Status: -1}
	for i, cell := range grid[0] {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cols.ID < 0 && matchesAlias(name, idAliases):
			cols.ID = i
		case cols.CheckNumber < 0 && matchesAlias(name, checkAliases):
			cols.CheckNumber = i
		case cols.Notes < 0 && matchesAlias(name, notesAliases):
			cols.Notes = i
		case cols.Status < 0 && matchesAlias(name, statusAliases):
			cols.Status = i
		}
	}

	if cols.ID < 0 && cols.CheckNumber < 0 {
		return nil, &SchemaError{Reason: `missing required columns: need an "ID" or "Check #" column`}
	}
	if cols.Notes < 0 && cols.Status < 0 {
		return nil, &SchemaError{Reason: `missing required columns: need a "Notes" or "Completion Status" column`}
	}

	sheet := &Sheet{Columns: cols}
	for i := 1; i < len(grid); i++ {
		row := RawRow{
			RowNumber:   i + 1, // 1-based against the original sheet, header included
			ID:          cellAt(grid[i], cols.ID),
			CheckNumber: cellAt(grid[i], cols.CheckNumber),
			Notes:       cellAt(grid[i], cols.Notes),
			Status:      cellAt(grid[i], cols.Status),
		}
		if row.ID == "" && row.CheckNumber == "" && row.Notes == "" && row.Status == "" {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func matchesAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

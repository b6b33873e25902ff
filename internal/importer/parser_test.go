package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VoidCheckTracker/internal/importer"
)

func TestParseSheetHeaderAliases(t *testing.T) {
	cases := []struct {
		name   string
		header []string
	}{
		{"canonical", []string{"ID", "Check #", "Notes", "Completion Status"}},
		{"underscored", []string{"id", "check_number", "notes", "completion_status"}},
		{"spaced", []string{"Id", "Check Number", "NOTES", "Completion status"}},
		{"padded", []string{" id ", " check # ", " notes ", " completion status "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sheet, err := importer.ParseSheet([][]string{tc.header, {"1", "100", "hello", "Pending"}})
			require.NoError(t, err)
			assert.Equal(t, 0, sheet.Columns.ID)
			assert.Equal(t, 1, sheet.Columns.CheckNumber)
			assert.Equal(t, 2, sheet.Columns.Notes)
			assert.Equal(t, 3, sheet.Columns.Status)
		})
	}
}

func TestParseSheetMissingMatchColumns(t *testing.T) {
	_, err := importer.ParseSheet([][]string{{"Notes", "Completion Status"}, {"x", "Pending"}})
	require.Error(t, err)
	var schemaErr *importer.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestParseSheetMissingWritableColumns(t *testing.T) {
	_, err := importer.ParseSheet([][]string{{"ID", "Check #"}, {"1", "100"}})
	require.Error(t, err)
	var schemaErr *importer.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestParseSheetEmptyGrid(t *testing.T) {
	_, err := importer.ParseSheet(nil)
	var schemaErr *importer.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestParseSheetBlankRowExcluded(t *testing.T) {
	sheet, err := importer.ParseSheet([][]string{
		{"ID", "Check #", "Notes", "Completion Status"},
		{"", "", "", ""},
		{"1", "100", "reviewed", "Complete"},
		{"  ", "  ", "", "  "},
	})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	// Row numbers count from the original sheet position, header included.
	assert.Equal(t, 3, sheet.Rows[0].RowNumber)
	assert.Equal(t, "1", sheet.Rows[0].ID)
}

func TestParseSheetRowNumbering(t *testing.T) {
	sheet, err := importer.ParseSheet([][]string{
		{"ID", "Notes"},
		{"1", "first"},
		{"2", "second"},
	})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 2, sheet.Rows[0].RowNumber)
	assert.Equal(t, 3, sheet.Rows[1].RowNumber)
}

func TestParseSheetTrimsValues(t *testing.T) {
	sheet, err := importer.ParseSheet([][]string{
		{"ID", "Check #", "Notes", "Completion Status"},
		{" 1 ", " 100 ", "  needs review  ", " Pending "},
	})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	row := sheet.Rows[0]
	assert.Equal(t, "1", row.ID)
	assert.Equal(t, "100", row.CheckNumber)
	assert.Equal(t, "needs review", row.Notes)
	assert.Equal(t, "Pending", row.Status)
}

func TestParseSheetShortRows(t *testing.T) {
	// Rows narrower than the header must not panic; absent cells read empty.
	sheet, err := importer.ParseSheet([][]string{
		{"ID", "Check #", "Notes", "Completion Status"},
		{"1"},
	})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "1", sheet.Rows[0].ID)
	assert.Equal(t, "", sheet.Rows[0].Notes)
}

func TestParseUploadUnsupportedExtension(t *testing.T) {
	_, err := importer.ParseUpload("report.pdf", []byte("%PDF-1.4"))
	var schemaErr *importer.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestParseUploadCSV(t *testing.T) {
	data := []byte("ID,Check #,Notes,Completion Status\n1,100,reviewed,Complete\n")
	grid, err := importer.ParseUpload("updates.csv", data)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"1", "100", "reviewed", "Complete"}, grid[1])
}

func TestParseUploadCorruptXLSX(t *testing.T) {
	_, err := importer.ParseUpload("updates.xlsx", []byte("not a zip archive"))
	var schemaErr *importer.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

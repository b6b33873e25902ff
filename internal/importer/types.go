package importer

import (
	"context"
)

// Record is the importer's view of a stored void check request. It carries
// only the fields the reconciliation reads or writes; everything else on the
// row is none of the importer's business.
type Record struct {
	ID               string
	CheckNumber      string
	Notes            string
	CompletionStatus string
}

// RecordStore is the storage boundary the apply phase writes through.
// Implementations must treat UpdateFields as atomic for a single record;
// nothing here is transactional across records.
type RecordStore interface {
	FetchAll(ctx context.Context) ([]Record, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// Columns holds the resolved column index per logical field, -1 when the
// header did not carry that column.
type Columns struct {
	ID          int
	CheckNumber int
	Notes       int
	Status      int
}

// RawRow is one parsed data row. RowNumber is the 1-based position in the
// original sheet, header included, so the first data row is 2.
type RawRow struct {
	RowNumber   int
	ID          string
	CheckNumber string
	Notes       string
	Status      string
}

// Sheet is the parsed upload: the header mapping plus the surviving
// (non-blank) data rows in original order.
type Sheet struct {
	Columns Columns
	Rows    []RawRow
}

// Change is a single field transition proposed for a record.
type Change struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Update is a proposed mutation for one matched row. Changes carries only
// the fields that actually differ, keyed by column name ("notes",
// "completion_status").
type Update struct {
	Row         int               `json:"row"`
	ID          string            `json:"id"`
	CheckNumber string            `json:"checkNumber"`
	Changes     map[string]Change `json:"changes"`
}

// Warning reports a row that could not be reconciled: no match, ambiguous
// match, or invalid status.
type Warning struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// SkipEntry reports a matched row whose values already equal the stored ones.
type SkipEntry struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// AppliedRow identifies a record that was successfully written in apply mode.
type AppliedRow struct {
	ID          string `json:"id"`
	CheckNumber string `json:"checkNumber"`
}

// ApplyError captures a per-row persist failure. Failures never abort the
// remaining writes.
type ApplyError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// PreviewResult is the preview-mode response body.
type PreviewResult struct {
	Updates  []Update    `json:"updates"`
	Warnings []Warning   `json:"warnings"`
	Skipped  []SkipEntry `json:"skipped"`
}

// ApplyResult is the apply-mode response body. Warnings and Skipped are the
// same lists the diff phase produced before persisting.
type ApplyResult struct {
	Applied  []AppliedRow `json:"applied"`
	Errors   []ApplyError `json:"errors"`
	Warnings []Warning    `json:"warnings"`
	Skipped  []SkipEntry  `json:"skipped"`
}

// SchemaError is fatal for the whole request: the upload cannot be processed
// at all (unreadable file, no worksheet, required columns missing). Row-level
// trouble is never a SchemaError.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return e.Reason
}

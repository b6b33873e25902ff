package importer

import (
	"fmt"
	"strings"

	"VoidCheckTracker/internal/config"
)

const skipNoChanges = "No changes"

// validateStatus rejects unrecognized completion statuses before diffing.
// The whole row is rejected, not just the status field: a malformed status
// usually means a malformed export, so partial application of the row's
// notes would do more harm than good.
func validateStatus(row RawRow) (string, bool) {
	if row.Status == "" || config.IsAllowedStatus(row.Status) {
		return "", true
	}
	return fmt.Sprintf("Invalid status %q. Must be: %s",
		row.Status, strings.Join(config.AllowedStatuses, ", ")), false
}

// diffRow compares the row's importable fields against the matched record
// and returns the minimal change set. Only notes and completion_status are
// diffable; any other column in the sheet is ignored here even when the
// header mapping recognized it.
func diffRow(cols Columns, row RawRow, rec Record) map[string]Change {
	changes := make(map[string]Change)
	if cols.Notes >= 0 && row.Notes != rec.Notes {
		changes[fieldNotes] = Change{From: rec.Notes, To: row.Notes}
	}
	if cols.Status >= 0 && row.Status != "" && row.Status != rec.CompletionStatus {
		changes[fieldStatus] = Change{From: rec.CompletionStatus, To: row.Status}
	}
	return changes
}

const (
	fieldNotes  = "notes"
	fieldStatus = "completion_status"
)

// reconcile runs match → validate → diff for every surviving row, in input
// order. Preview returns this result as-is; apply persists its Updates.
func reconcile(sheet *Sheet, snap *Snapshot) *PreviewResult {
	res := &PreviewResult{
		Updates:  []Update{},
		Warnings: []Warning{},
		Skipped:  []SkipEntry{},
	}
	for _, row := range sheet.Rows {
		out := snap.Match(row)
		switch out.Kind {
		case OutcomeWarned:
			res.Warnings = append(res.Warnings, Warning{Row: row.RowNumber, Reason: out.Reason})
			continue
		case OutcomeSkipped:
			res.Skipped = append(res.Skipped, SkipEntry{Row: row.RowNumber, Reason: out.Reason})
			continue
		case OutcomeNone:
			continue
		}

		if reason, ok := validateStatus(row); !ok {
			res.Warnings = append(res.Warnings, Warning{Row: row.RowNumber, Reason: reason})
			continue
		}

		changes := diffRow(sheet.Columns, row, out.Record)
		if len(changes) == 0 {
			res.Skipped = append(res.Skipped, SkipEntry{Row: row.RowNumber, Reason: skipNoChanges})
			continue
		}
		res.Updates = append(res.Updates, Update{
			Row:         row.RowNumber,
			ID:          out.Record.ID,
			CheckNumber: out.Record.CheckNumber,
			Changes:     changes,
		})
	}
	return res
}

package importer

import (
	"context"
	"time"

	"VoidCheckTracker/internal/config"
)

// Importer runs the upload reconciliation pipeline: parse the sheet, match
// rows against a snapshot of the record store, diff, and either report
// (preview) or persist (apply).
//
// The snapshot-then-diff-then-apply sequence is not transactional. Two
// concurrent imports, or an import racing a manual edit, can lose an update
// when the second apply diffed against a stale snapshot. That is an accepted
// limitation; callers needing stronger guarantees must add an optimistic
// check at the storage boundary.
type Importer struct {
	Store RecordStore
	Now   func() time.Time // nil means time.Now
}

func New(store RecordStore) *Importer {
	return &Importer{Store: store}
}

func (imp *Importer) now() time.Time {
	if imp.Now != nil {
		return imp.Now()
	}
	return time.Now()
}

func (imp *Importer) buildSnapshot(ctx context.Context, filename string, data []byte) (*Sheet, *Snapshot, error) {
	grid, err := ParseUpload(filename, data)
	if err != nil {
		return nil, nil, err
	}
	sheet, err := ParseSheet(grid)
	if err != nil {
		return nil, nil, err
	}
	records, err := imp.Store.FetchAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sheet, NewSnapshot(records), nil
}

// Preview computes the full change set without touching storage. Running
// preview twice over the same upload and the same snapshot yields identical
// results; apply is exactly this computation followed by the persist step.
func (imp *Importer) Preview(ctx context.Context, filename string, data []byte) (*PreviewResult, error) {
	sheet, snap, err := imp.buildSnapshot(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	return reconcile(sheet, snap), nil
}

// Apply computes the same change set as Preview, then persists each update
// independently and in input row order. One failed write never aborts the
// others; failures come back per row in Errors.
func (imp *Importer) Apply(ctx context.Context, filename string, data []byte) (*ApplyResult, error) {
	sheet, snap, err := imp.buildSnapshot(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	preview := reconcile(sheet, snap)

	res := &ApplyResult{
		Applied:  []AppliedRow{},
		Errors:   []ApplyError{},
		Warnings: preview.Warnings,
		Skipped:  preview.Skipped,
	}
	for _, u := range preview.Updates {
		fields := make(map[string]interface{}, 3)
		if ch, ok := u.Changes[fieldNotes]; ok {
			fields[fieldNotes] = ch.To
		}
		if ch, ok := u.Changes[fieldStatus]; ok {
			fields[fieldStatus] = ch.To
			// Status and sign-off travel together everywhere status is
			// mutated: Complete stamps the sign-off, anything else clears it.
			if ch.To == config.StatusComplete {
				fields["sign_off_date"] = imp.now()
			} else {
				fields["sign_off_date"] = nil
			}
		}
		if err := imp.Store.UpdateFields(ctx, u.ID, fields); err != nil {
			res.Errors = append(res.Errors, ApplyError{ID: u.ID, Error: err.Error()})
			continue
		}
		res.Applied = append(res.Applied, AppliedRow{ID: u.ID, CheckNumber: u.CheckNumber})
	}
	return res, nil
}

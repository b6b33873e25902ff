package importer_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"VoidCheckTracker/internal/importer"
)

// fakeStore is an in-memory RecordStore that applies UpdateFields to its
// records, so a re-run of preview sees the post-apply state.
type fakeStore struct {
	records  []importer.Record
	failIDs  map[string]error
	writes   []map[string]interface{}
	writeIDs []string
}

func (s *fakeStore) FetchAll(ctx context.Context) ([]importer.Record, error) {
	out := make([]importer.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if err, ok := s.failIDs[id]; ok {
		return err
	}
	s.writeIDs = append(s.writeIDs, id)
	s.writes = append(s.writes, fields)
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if v, ok := fields["notes"]; ok {
			s.records[i].Notes = v.(string)
		}
		if v, ok := fields["completion_status"]; ok {
			s.records[i].CompletionStatus = v.(string)
		}
	}
	return nil
}

func storeFixture() *fakeStore {
	return &fakeStore{records: []importer.Record{
		{ID: "1", CheckNumber: "100", Notes: "", CompletionStatus: "Pending"},
		{ID: "2", CheckNumber: "200", Notes: "dup a", CompletionStatus: "Pending"},
		{ID: "3", CheckNumber: "200", Notes: "dup b", CompletionStatus: "Complete"},
		{ID: "4", CheckNumber: "400", Notes: "done", CompletionStatus: "Complete"},
	}}
}

const csvHeader = "ID,Check #,Notes,Completion Status\n"

func csvUpload(rows string) []byte {
	return []byte(csvHeader + rows)
}

func TestPreviewProposedUpdate(t *testing.T) {
	// Scenario: id match with both fields differing.
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload("1,100,reviewed,Complete\n"))
	require.NoError(t, err)
	require.Len(t, res.Updates, 1)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Skipped)

	u := res.Updates[0]
	assert.Equal(t, 2, u.Row)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "100", u.CheckNumber)
	assert.Equal(t, importer.Change{From: "", To: "reviewed"}, u.Changes["notes"])
	assert.Equal(t, importer.Change{From: "Pending", To: "Complete"}, u.Changes["completion_status"])
}

func TestPreviewAmbiguousCheckNumber(t *testing.T) {
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload(",200,note,\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Updates)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Multiple records for Check #200 — skipped (ambiguous)", res.Warnings[0].Reason)
}

func TestPreviewInvalidStatusRejectsWholeRow(t *testing.T) {
	// Notes differ too, but the malformed status rejects the entire row.
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload("1,100,reviewed,Voided\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Updates)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, `Invalid status "Voided". Must be: Pending, Complete, Request Invalidated`, res.Warnings[0].Reason)
}

func TestPreviewNoChangesSkips(t *testing.T) {
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload("4,400,done,Complete\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Updates)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "No changes", res.Skipped[0].Reason)
}

func TestPreviewUnchangedFieldsNotResent(t *testing.T) {
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload("4,400,revisited,Complete\n"))
	require.NoError(t, err)
	require.Len(t, res.Updates, 1)
	u := res.Updates[0]
	assert.Contains(t, u.Changes, "notes")
	assert.NotContains(t, u.Changes, "completion_status")
}

func TestPreviewIdempotent(t *testing.T) {
	imp := importer.New(storeFixture())
	data := csvUpload("1,100,reviewed,Complete\n,200,x,\n,999,y,\n4,400,done,Complete\n")
	first, err := imp.Preview(context.Background(), "updates.csv", data)
	require.NoError(t, err)
	second, err := imp.Preview(context.Background(), "updates.csv", data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPreviewOutcomesFollowRowOrder(t *testing.T) {
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload(",999,a,\n1,,b,\n,888,c,\n"))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, 2, res.Warnings[0].Row)
	assert.Equal(t, 4, res.Warnings[1].Row)
	require.Len(t, res.Updates, 1)
	assert.Equal(t, 3, res.Updates[0].Row)
}

func TestApplyPersistsAndReports(t *testing.T) {
	store := storeFixture()
	stamp := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	imp := importer.New(store)
	imp.Now = func() time.Time { return stamp }

	res, err := imp.Apply(context.Background(), "updates.csv",
		csvUpload("1,100,reviewed,Complete\n"))
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, importer.AppliedRow{ID: "1", CheckNumber: "100"}, res.Applied[0])
	assert.Empty(t, res.Errors)

	require.Len(t, store.writes, 1)
	fields := store.writes[0]
	assert.Equal(t, "reviewed", fields["notes"])
	assert.Equal(t, "Complete", fields["completion_status"])
	assert.Equal(t, stamp, fields["sign_off_date"])
}

func TestApplySignOffClearedForNonComplete(t *testing.T) {
	store := storeFixture()
	imp := importer.New(store)
	res, err := imp.Apply(context.Background(), "updates.csv",
		csvUpload("4,400,done,Request Invalidated\n"))
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	require.Len(t, store.writes, 1)
	fields := store.writes[0]
	assert.Equal(t, "Request Invalidated", fields["completion_status"])
	require.Contains(t, fields, "sign_off_date")
	assert.Nil(t, fields["sign_off_date"])
	assert.NotContains(t, fields, "notes")
}

func TestApplyPartialFailure(t *testing.T) {
	// Scenario: one persist fails, the rest still land.
	store := storeFixture()
	store.failIDs = map[string]error{"2": errors.New("connection reset")}
	imp := importer.New(store)

	res, err := imp.Apply(context.Background(), "updates.csv",
		csvUpload("1,100,reviewed,Complete\n2,,second pass,\n4,400,revisited,\n"))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, importer.ApplyError{ID: "2", Error: "connection reset"}, res.Errors[0])
	require.Len(t, res.Applied, 2)
	assert.Equal(t, "1", res.Applied[0].ID)
	assert.Equal(t, "4", res.Applied[1].ID)
}

func TestApplyThenPreviewRoundTrip(t *testing.T) {
	store := storeFixture()
	imp := importer.New(store)
	data := csvUpload("1,100,reviewed,Complete\n4,400,revisited,\n")

	applied, err := imp.Apply(context.Background(), "updates.csv", data)
	require.NoError(t, err)
	require.Len(t, applied.Applied, 2)

	// Against the post-apply snapshot every previously-diffed row now skips.
	res, err := imp.Preview(context.Background(), "updates.csv", data)
	require.NoError(t, err)
	assert.Empty(t, res.Updates)
	require.Len(t, res.Skipped, 2)
	for _, s := range res.Skipped {
		assert.Equal(t, "No changes", s.Reason)
	}
}

func TestApplySchemaErrorAbortsBeforeRows(t *testing.T) {
	store := storeFixture()
	imp := importer.New(store)
	_, err := imp.Apply(context.Background(), "updates.csv",
		[]byte("ID,Check #\n1,100\n"))
	var schemaErr *importer.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, store.writes)
}

func TestPreviewBlankRowContributesNothing(t *testing.T) {
	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.csv",
		csvUpload(",,,\n1,100,reviewed,\n,,,\n"))
	require.NoError(t, err)
	assert.Len(t, res.Updates, 1)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Skipped)
}

func TestPreviewFromXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"ID", "Check #", "Notes", "Completion Status"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"1", "100", "reviewed", "Complete"}))
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	imp := importer.New(storeFixture())
	res, err := imp.Preview(context.Background(), "updates.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, res.Updates, 1)
	assert.Equal(t, "1", res.Updates[0].ID)
	assert.Equal(t, importer.Change{From: "Pending", To: "Complete"}, res.Updates[0].Changes["completion_status"])
}

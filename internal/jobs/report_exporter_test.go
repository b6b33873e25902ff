package jobs

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"VoidCheckTracker/internal/config"
	"VoidCheckTracker/internal/store"
)

func reportFixture() []store.VoidCheckRequest {
	signed := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	return []store.VoidCheckRequest{
		{
			RequestID:        "r-1",
			CheckNumber:      "100",
			PayeeName:        "Acme LLC",
			Amount:           decimal.RequireFromString("120.50"),
			CompletionStatus: config.StatusComplete,
			SignOffDate:      &signed,
			CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			RequestID:        "r-2",
			CheckNumber:      "101",
			PayeeName:        "Beta Inc",
			Amount:           decimal.RequireFromString("79.50"),
			CompletionStatus: config.StatusPending,
			CreatedAt:        time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			RequestID:        "r-3",
			CheckNumber:      "102",
			PayeeName:        "Acme LLC",
			Amount:           decimal.RequireFromString("30.00"),
			CompletionStatus: config.StatusComplete,
			CreatedAt:        time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuildReportWorkbook(t *testing.T) {
	data, err := BuildReportWorkbook(reportFixture())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	summary, err := wb.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 1+len(config.AllowedStatuses))
	assert.Equal(t, []string{"Status", "Requests", "Total Amount"}, summary[0])

	rowFor := map[string][]string{}
	for _, row := range summary[1:] {
		rowFor[row[0]] = row
	}
	assert.Equal(t, "2", rowFor[config.StatusComplete][1])
	assert.Equal(t, "150.50", rowFor[config.StatusComplete][2])
	assert.Equal(t, "1", rowFor[config.StatusPending][1])
	assert.Equal(t, "79.50", rowFor[config.StatusPending][2])
	assert.Equal(t, "0", rowFor[config.StatusRequestInvalidated][1])

	detail, err := wb.GetRows("Requests")
	require.NoError(t, err)
	require.Len(t, detail, 4)
	assert.Equal(t, "r-1", detail[1][0])
	assert.Equal(t, "120.50", detail[1][3])
	assert.Equal(t, "2026-08-10", detail[1][7])
	// pending rows carry no sign-off date
	assert.Equal(t, "", detail[2][7])
}

func TestBuildReportWorkbookEmpty(t *testing.T) {
	data, err := BuildReportWorkbook(nil)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	detail, err := wb.GetRows("Requests")
	require.NoError(t, err)
	require.Len(t, detail, 1)
}

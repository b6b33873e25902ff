package jobs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"VoidCheckTracker/internal/blob"
	"VoidCheckTracker/internal/config"
	"VoidCheckTracker/internal/logger"
	"VoidCheckTracker/internal/mailer"
	"VoidCheckTracker/internal/store"
)

// ReportConfig controls the scheduled void-check export.
type ReportConfig struct {
	Schedule   string
	TimeZone   string
	Recipients []string
}

// NewDefaultReportConfig reads REPORT_RECIPIENTS (comma-separated) and falls
// back to the package defaults for schedule and timezone.
func NewDefaultReportConfig() *ReportConfig {
	cfg := &ReportConfig{
		Schedule: config.DefaultReportSchedule,
		TimeZone: config.DefaultTimeZone,
	}
	if v := os.Getenv("REPORT_RECIPIENTS"); v != "" {
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Recipients = append(cfg.Recipients, r)
			}
		}
	}
	return cfg
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RunReportScheduler registers the export on the cron schedule and starts it.
func RunReportScheduler(cfg *ReportConfig, st *store.Store, blobStore blob.Store, mail *mailer.Mailer) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultReportSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone for report scheduler: %v", err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		key, err := GenerateReportOnce(ctx, cfg, st, blobStore, mail)
		if err != nil {
			logger.GlobalLogger.LogAudit("Void check report run failed: " + err.Error())
			return
		}
		logger.GlobalLogger.LogAudit("Void check report generated: " + key)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report job: %v", err)
	}
	c.Start()
	return nil
}

// GenerateReportOnce builds the workbook, stores it, and mails it out.
// Returns the blob key of the stored report.
func GenerateReportOnce(ctx context.Context, cfg *ReportConfig, st *store.Store, blobStore blob.Store, mail *mailer.Mailer) (string, error) {
	records, err := st.FetchAllDetailed(ctx)
	if err != nil {
		return "", err
	}

	data, err := BuildReportWorkbook(records)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/voidcheck_report_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := blobStore.Put(ctx, key, xlsxContentType, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	if len(cfg.Recipients) > 0 {
		body := fmt.Sprintf("Attached: void check request report (%d records) generated %s.",
			len(records), time.Now().Format("2006-01-02 15:04"))
		err := mail.Send(cfg.Recipients, "Void Check Request Report", body, &mailer.Attachment{
			Filename:    "voidcheck_report.xlsx",
			ContentType: xlsxContentType,
			Data:        data,
		})
		if err != nil {
			return key, fmt.Errorf("report stored at %s but mail failed: %w", key, err)
		}
	}
	return key, nil
}

// BuildReportWorkbook renders a Summary sheet (count and amount per status)
// and a Requests detail sheet.
func BuildReportWorkbook(records []store.VoidCheckRequest) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	summary := wb.GetSheetName(0)
	if err := wb.SetSheetName(summary, "Summary"); err != nil {
		return nil, err
	}
	if _, err := wb.NewSheet("Requests"); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	totals := map[string]decimal.Decimal{}
	for _, r := range records {
		counts[r.CompletionStatus]++
		totals[r.CompletionStatus] = totals[r.CompletionStatus].Add(r.Amount)
	}

	if err := wb.SetSheetRow("Summary", "A1", &[]interface{}{"Status", "Requests", "Total Amount"}); err != nil {
		return nil, err
	}
	for i, status := range config.AllowedStatuses {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{status, counts[status], totals[status].StringFixed(2)}
		if err := wb.SetSheetRow("Summary", cell, &row); err != nil {
			return nil, err
		}
	}

	header := []interface{}{"ID", "Check #", "Payee", "Amount", "Reason", "Notes",
		"Completion Status", "Sign Off Date", "Requested By", "Created At"}
	if err := wb.SetSheetRow("Requests", "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range records {
		signOff := ""
		if r.SignOffDate != nil {
			signOff = r.SignOffDate.Format("2006-01-02")
		}
		row := []interface{}{r.RequestID, r.CheckNumber, r.PayeeName, r.Amount.StringFixed(2),
			r.Reason, r.Notes, r.CompletionStatus, signOff, r.RequestedBy,
			r.CreatedAt.Format("2006-01-02 15:04:05")}
		if err := wb.SetSheetRow("Requests", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package config

const (
	DefaultTimeZone       = "America/Chicago"
	DefaultReportSchedule = "0 7 * * 1" // Monday 07:00, weekly ops report
	ReportBatchSize       = 500

	// Completion statuses for void check requests. Exact, case-sensitive
	// strings; the importer and the bulk handlers both reject anything else.
	StatusPending            = "Pending"
	StatusComplete           = "Complete"
	StatusRequestInvalidated = "Request Invalidated"
)

// AllowedStatuses is the accepted completion_status set, in display order.
var AllowedStatuses = []string{StatusPending, StatusComplete, StatusRequestInvalidated}

// IsAllowedStatus reports whether s is a recognized completion status.
func IsAllowedStatus(s string) bool {
	for _, v := range AllowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

package jobs

import (
	"context"
	"fmt"
	"log"

	"VoidCheckTracker/internal/blob"
	"VoidCheckTracker/internal/logger"
	"VoidCheckTracker/internal/mailer"
	"VoidCheckTracker/internal/serviceiface"
	"VoidCheckTracker/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	reportConfig := NewDefaultReportConfig()

	// Override from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["report_schedule"].(string); ok && schedule != "" {
			reportConfig.Schedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			reportConfig.TimeZone = tz
		}
	}

	blobStore, err := blob.NewFromEnv(context.Background())
	if err != nil {
		return fmt.Errorf("failed to init report storage: %v", err)
	}

	err = RunReportScheduler(reportConfig, store.New(s.db), blobStore, mailer.NewFromEnv())
	if err != nil {
		return fmt.Errorf("failed to start report scheduler: %v", err)
	}

	logger.GlobalLogger.LogAudit("Cron service started with report exporter")
	log.Println("Cron service started — Report Exporter scheduled")

	return nil
}

func (s *CronService) Stop() error {
	// The cron jobs are managed internally by RunReportScheduler
	log.Println("Cron service stopped.")
	return nil
}

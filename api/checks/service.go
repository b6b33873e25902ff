package checks

import (
	"VoidCheckTracker/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChecksService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewChecksService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &ChecksService{config: cfg, pool: pool}
}

func (s *ChecksService) Name() string {
	return "checks"
}

func (s *ChecksService) Start() error {
	go StartChecksService(s.pool)
	return nil
}

func (s *ChecksService) Stop() error {
	// Implement stop logic if needed
	return nil
}

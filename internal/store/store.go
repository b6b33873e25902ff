package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"VoidCheckTracker/internal/importer"
)

// VoidCheckRequest is the full record shape served to the UI and exported by
// the report job. The importer only ever sees the narrower importer.Record.
type VoidCheckRequest struct {
	RequestID        string          `json:"request_id"`
	CheckNumber      string          `json:"check_number"`
	PayeeName        string          `json:"payee_name"`
	Amount           decimal.Decimal `json:"amount"`
	Reason           string          `json:"reason"`
	Notes            string          `json:"notes"`
	CompletionStatus string          `json:"completion_status"`
	SignOffDate      *time.Time      `json:"sign_off_date"`
	RequestedBy      string          `json:"requested_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Store wraps the pgx pool for the queries shared between the importer and
// the scheduled report; the HTTP handlers keep their own queries.
type Store struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// FetchAll reads the importer's snapshot: every request with just the
// matched and diffed fields.
func (s *Store) FetchAll(ctx context.Context) ([]importer.Record, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT request_id, check_number, COALESCE(notes, ''), completion_status
		FROM voidcheckrequests
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer rows.Close()

	var records []importer.Record
	for rows.Next() {
		var r importer.Record
		if err := rows.Scan(&r.ID, &r.CheckNumber, &r.Notes, &r.CompletionStatus); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Writable columns for UpdateFields. Anything else in the field set is a
// programming error, not caller input, so it fails loudly.
var updatableColumns = map[string]bool{
	"notes":             true,
	"completion_status": true,
	"sign_off_date":     true,
}

// UpdateFields applies a partial field set to one record. Atomic at the
// single-record level only; updated_at is always bumped.
func (s *Store) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	// Stable order keeps the generated SQL deterministic.
	for _, col := range []string{"notes", "completion_status", "sign_off_date"} {
		val, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	for col := range fields {
		if !updatableColumns[col] {
			return fmt.Errorf("column %q is not updatable", col)
		}
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE voidcheckrequests SET %s WHERE request_id = $%d",
		strings.Join(setClauses, ", "), len(args))
	tag, err := s.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// FetchAllDetailed reads every request in full, newest first. Used by the
// scheduled export.
func (s *Store) FetchAllDetailed(ctx context.Context) ([]VoidCheckRequest, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT request_id, check_number, COALESCE(payee_name, ''), COALESCE(amount::text, '0'),
		       COALESCE(reason, ''), COALESCE(notes, ''), completion_status,
		       sign_off_date, COALESCE(requested_by, ''), created_at, updated_at
		FROM voidcheckrequests
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch requests: %w", err)
	}
	defer rows.Close()

	var out []VoidCheckRequest
	for rows.Next() {
		var r VoidCheckRequest
		var amount string
		if err := rows.Scan(&r.RequestID, &r.CheckNumber, &r.PayeeName, &amount,
			&r.Reason, &r.Notes, &r.CompletionStatus, &r.SignOffDate,
			&r.RequestedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		r.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("bad amount on %s: %w", r.RequestID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

package checks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"VoidCheckTracker/api"
	"VoidCheckTracker/api/utils"
	"VoidCheckTracker/internal/config"
)

type VoidCheckRequestInput struct {
	CheckNumber string `json:"check_number"`
	PayeeName   string `json:"payee_name"`
	Amount      string `json:"amount"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
	RequestedBy string `json:"requested_by"`
}

// CreateVoidCheckRequest handles the intake form submission.
func CreateVoidCheckRequest(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VoidCheckRequestInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		req.CheckNumber = strings.TrimSpace(req.CheckNumber)
		req.PayeeName = strings.TrimSpace(req.PayeeName)
		req.RequestedBy = strings.TrimSpace(req.RequestedBy)
		if req.CheckNumber == "" || req.PayeeName == "" || req.RequestedBy == "" {
			api.RespondWithError(w, http.StatusBadRequest, "Missing required fields: check_number, payee_name, requested_by")
			return
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
		if err != nil || amount.IsNegative() {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid amount: "+req.Amount)
			return
		}

		ctx := r.Context()
		var requestID string
		err = pgxPool.QueryRow(ctx, `
			INSERT INTO voidcheckrequests (check_number, payee_name, amount, reason, notes, completion_status, requested_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING request_id
		`, req.CheckNumber, req.PayeeName, amount.String(), req.Reason, req.Notes,
			config.StatusPending, req.RequestedBy).Scan(&requestID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"request_id": requestID,
		})
	}
}

// GetAllVoidCheckRequests serves the filterable table view. Supported query
// params: status, check_number, payee (substring), from, to (created_at
// date range, YYYY-MM-DD), plus page/limit for pagination.
func GetAllVoidCheckRequests(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		where := []string{}
		args := []interface{}{}
		addArg := func(clause string, val interface{}) {
			args = append(args, val)
			where = append(where, fmt.Sprintf(clause, len(args)))
		}
		if v := q.Get("status"); v != "" {
			if !config.IsAllowedStatus(v) {
				api.RespondWithError(w, http.StatusBadRequest, "Unknown status filter: "+v)
				return
			}
			addArg("completion_status = $%d", v)
		}
		if v := q.Get("check_number"); v != "" {
			addArg("check_number = $%d", v)
		}
		if v := q.Get("payee"); v != "" {
			addArg("payee_name ILIKE $%d", "%"+v+"%")
		}
		if v := q.Get("from"); v != "" {
			addArg("created_at >= $%d::date", v)
		}
		if v := q.Get("to"); v != "" {
			addArg("created_at < $%d::date + interval '1 day'", v)
		}

		whereClause := ""
		if len(where) > 0 {
			whereClause = " WHERE " + strings.Join(where, " AND ")
		}

		total, err := utils.CountTotal(ctx, pgxPool,
			"SELECT COUNT(*) FROM voidcheckrequests"+whereClause, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pagination.SetPaginationStats(total)

		sql := `
			SELECT request_id, check_number, COALESCE(payee_name, ''), COALESCE(amount::text, '0'),
			       COALESCE(reason, ''), COALESCE(notes, ''), completion_status,
			       sign_off_date, COALESCE(requested_by, ''), created_at, updated_at
			FROM voidcheckrequests` + whereClause
		sql += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, pagination.Limit, pagination.Offset)

		rows, err := pgxPool.Query(ctx, sql, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		results := []map[string]interface{}{}
		for rows.Next() {
			var (
				requestID, checkNumber, payeeName, amount  string
				reason, notes, completionStatus, reqBy     string
				signOffDate                                *time.Time
				createdAt, updatedAt                       time.Time
			)
			if err := rows.Scan(&requestID, &checkNumber, &payeeName, &amount,
				&reason, &notes, &completionStatus, &signOffDate, &reqBy,
				&createdAt, &updatedAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			results = append(results, map[string]interface{}{
				"request_id":        requestID,
				"check_number":      checkNumber,
				"payee_name":        payeeName,
				"amount":            amount,
				"reason":            reason,
				"notes":             notes,
				"completion_status": completionStatus,
				"sign_off_date":     signOffDate,
				"requested_by":      reqBy,
				"created_at":        createdAt,
				"updated_at":        updatedAt,
			})
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"rows":       results,
			"pagination": pagination,
		})
	}
}

// GetVoidCheckRequest fetches one record for the edit modal.
func GetVoidCheckRequest(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]
		var (
			checkNumber, payeeName, amount, reason, notes string
			completionStatus, requestedBy                 string
			signOffDate                                   *time.Time
			createdAt, updatedAt                          time.Time
		)
		err := pgxPool.QueryRow(ctx, `
			SELECT check_number, COALESCE(payee_name, ''), COALESCE(amount::text, '0'),
			       COALESCE(reason, ''), COALESCE(notes, ''), completion_status,
			       sign_off_date, COALESCE(requested_by, ''), created_at, updated_at
			FROM voidcheckrequests WHERE request_id = $1
		`, id).Scan(&checkNumber, &payeeName, &amount, &reason, &notes,
			&completionStatus, &signOffDate, &requestedBy, &createdAt, &updatedAt)
		if err != nil {
			api.RespondWithError(w, http.StatusNotFound, "Request not found: "+id)
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":           true,
			"request_id":        id,
			"check_number":      checkNumber,
			"payee_name":        payeeName,
			"amount":            amount,
			"reason":            reason,
			"notes":             notes,
			"completion_status": completionStatus,
			"sign_off_date":     signOffDate,
			"requested_by":      requestedBy,
			"created_at":        createdAt,
			"updated_at":        updatedAt,
		})
	}
}

type updateRequestInput struct {
	PayeeName        *string `json:"payee_name"`
	Amount           *string `json:"amount"`
	Reason           *string `json:"reason"`
	Notes            *string `json:"notes"`
	CompletionStatus *string `json:"completion_status"`
}

// UpdateVoidCheckRequest applies a partial edit. A status change always
// carries the sign-off coupling: Complete stamps sign_off_date, any other
// status clears it.
func UpdateVoidCheckRequest(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]
		var req updateRequestInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		set := []string{}
		args := []interface{}{}
		add := func(clause string, val interface{}) {
			args = append(args, val)
			set = append(set, fmt.Sprintf(clause, len(args)))
		}
		if req.PayeeName != nil {
			add("payee_name = $%d", strings.TrimSpace(*req.PayeeName))
		}
		if req.Amount != nil {
			amount, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
			if err != nil || amount.IsNegative() {
				api.RespondWithError(w, http.StatusBadRequest, "Invalid amount: "+*req.Amount)
				return
			}
			add("amount = $%d", amount.String())
		}
		if req.Reason != nil {
			add("reason = $%d", *req.Reason)
		}
		if req.Notes != nil {
			add("notes = $%d", *req.Notes)
		}
		if req.CompletionStatus != nil {
			status := *req.CompletionStatus
			if !config.IsAllowedStatus(status) {
				api.RespondWithError(w, http.StatusBadRequest,
					"Invalid status: "+status+". Must be: "+strings.Join(config.AllowedStatuses, ", "))
				return
			}
			add("completion_status = $%d", status)
			if status == config.StatusComplete {
				set = append(set, "sign_off_date = now()")
			} else {
				set = append(set, "sign_off_date = NULL")
			}
		}
		if len(set) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "No fields to update")
			return
		}
		set = append(set, "updated_at = now()")
		args = append(args, id)

		sql := fmt.Sprintf("UPDATE voidcheckrequests SET %s WHERE request_id = $%d",
			strings.Join(set, ", "), len(args))
		tag, err := pgxPool.Exec(ctx, sql, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithError(w, http.StatusNotFound, "Request not found: "+id)
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

type bulkStatusInput struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status"`
}

// BulkUpdateStatus transitions a selection of requests in one statement.
func BulkUpdateStatus(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req bulkStatusInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if len(req.RequestIDs) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "request_ids is empty")
			return
		}
		if !config.IsAllowedStatus(req.Status) {
			api.RespondWithError(w, http.StatusBadRequest,
				"Invalid status: "+req.Status+". Must be: "+strings.Join(config.AllowedStatuses, ", "))
			return
		}

		tag, err := pgxPool.Exec(ctx, `
			UPDATE voidcheckrequests
			SET completion_status = $1,
			    sign_off_date = CASE WHEN $1 = $2 THEN now() ELSE NULL END,
			    updated_at = now()
			WHERE request_id = ANY($3::uuid[])
		`, req.Status, config.StatusComplete, pq.Array(req.RequestIDs))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"updated": tag.RowsAffected(),
		})
	}
}

// DeleteVoidCheckRequest removes a record and its attachment metadata.
func DeleteVoidCheckRequest(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]

		tx, err := pgxPool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to start transaction: "+err.Error())
			return
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx, `DELETE FROM checkattachments WHERE request_id = $1`, id); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		tag, err := tx.Exec(ctx, `DELETE FROM voidcheckrequests WHERE request_id = $1`, id)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithError(w, http.StatusNotFound, "Request not found: "+id)
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to commit transaction: "+err.Error())
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

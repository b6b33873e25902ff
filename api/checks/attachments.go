package checks

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"VoidCheckTracker/api"
	"VoidCheckTracker/internal/blob"
	"VoidCheckTracker/internal/checksum"
)

const maxAttachmentBytes int64 = 10 << 20

var attachmentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadAttachment stores one file against a request: blob first, then the
// metadata row. A failed metadata insert rolls the blob back.
func UploadAttachment(pgxPool *pgxpool.Pool, blobStore blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := mux.Vars(r)["id"]

		if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Missing file")
			return
		}
		defer file.Close()
		if header.Size > maxAttachmentBytes {
			api.RespondWithError(w, http.StatusBadRequest, "File exceeds 10MB limit")
			return
		}
		contentType := header.Header.Get("Content-Type")
		if !attachmentMimeTypes[contentType] {
			api.RespondWithError(w, http.StatusBadRequest, "Unsupported attachment type: "+contentType)
			return
		}

		// Reject uploads against a missing request before writing the blob.
		var exists bool
		if err := pgxPool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM voidcheckrequests WHERE request_id = $1)`,
			requestID).Scan(&exists); err != nil || !exists {
			api.RespondWithError(w, http.StatusNotFound, "Request not found: "+requestID)
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to read file: "+err.Error())
			return
		}
		digest := checksum.Compute(data)

		attachmentID := uuid.New().String()
		objectKey := "attachments/" + attachmentID
		if err := blobStore.Put(ctx, objectKey, contentType, bytes.NewReader(data)); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to store file: "+err.Error())
			return
		}

		_, err = pgxPool.Exec(ctx, `
			INSERT INTO checkattachments (attachment_id, request_id, file_name, content_type, size_bytes, object_key, checksum, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, attachmentID, requestID, header.Filename, contentType, header.Size,
			objectKey, digest, r.FormValue("uploaded_by"))
		if err != nil {
			blobStore.Delete(ctx, objectKey)
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"attachment_id": attachmentID,
			"file_name":     header.Filename,
		})
	}
}

// ListAttachments returns the attachment metadata for one request.
func ListAttachments(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := mux.Vars(r)["id"]
		rows, err := pgxPool.Query(ctx, `
			SELECT attachment_id, file_name, content_type, size_bytes, COALESCE(uploaded_by, ''), uploaded_at
			FROM checkattachments WHERE request_id = $1
			ORDER BY uploaded_at DESC
		`, requestID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		results := []map[string]interface{}{}
		for rows.Next() {
			var (
				attachmentID, fileName, contentType, uploadedBy string
				sizeBytes                                       int64
				uploadedAt                                      time.Time
			)
			if err := rows.Scan(&attachmentID, &fileName, &contentType, &sizeBytes, &uploadedBy, &uploadedAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			results = append(results, map[string]interface{}{
				"attachment_id": attachmentID,
				"file_name":     fileName,
				"content_type":  contentType,
				"size_bytes":    sizeBytes,
				"uploaded_by":   uploadedBy,
				"uploaded_at":   uploadedAt,
			})
		}
		api.RespondWithPayload(w, true, "", results)
	}
}

// DownloadAttachment serves one stored blob back with its original name,
// verifying the bytes against the checksum recorded at upload. Attachments
// are capped at 10MB so buffering the whole file is acceptable.
func DownloadAttachment(pgxPool *pgxpool.Pool, blobStore blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		attachmentID := mux.Vars(r)["attachmentId"]

		var fileName, contentType, objectKey, digest string
		err := pgxPool.QueryRow(ctx, `
			SELECT file_name, content_type, object_key, COALESCE(checksum, '')
			FROM checkattachments WHERE attachment_id = $1
		`, attachmentID).Scan(&fileName, &contentType, &objectKey, &digest)
		if err != nil {
			api.RespondWithError(w, http.StatusNotFound, "Attachment not found: "+attachmentID)
			return
		}

		rc, err := blobStore.Get(ctx, objectKey)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to read file: "+err.Error())
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to read file: "+err.Error())
			return
		}
		if digest != "" {
			ok, err := checksum.NewVerifier(digest).Verify(data)
			if err != nil || !ok {
				api.RespondWithError(w, http.StatusInternalServerError,
					"Attachment failed integrity check: "+attachmentID)
				return
			}
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		w.Write(data)
	}
}

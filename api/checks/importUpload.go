package checks

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"VoidCheckTracker/api"
	"VoidCheckTracker/internal/importer"
	"VoidCheckTracker/internal/logger"
	"VoidCheckTracker/internal/store"
)

const maxImportBytes = 32 << 20

// ImportVoidChecks handles the reconciliation upload. A multipart form with
// action=preview computes and returns the change set without touching
// storage; action=apply runs the same pipeline and then persists each update
// independently. Schema-level failures (missing file, unreadable sheet,
// missing required columns) abort the whole request with {error, message};
// row-level trouble always comes back in the 200 body.
func ImportVoidChecks(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			api.RespondWithSchemaError(w, http.StatusBadRequest, "Failed to parse multipart form", err.Error())
			return
		}

		action := r.FormValue("action")
		if action != "preview" && action != "apply" {
			api.RespondWithSchemaError(w, http.StatusBadRequest,
				`action must be "preview" or "apply"`, "")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithSchemaError(w, http.StatusBadRequest, "Missing file", "")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithSchemaError(w, http.StatusBadRequest, "Failed to read file", err.Error())
			return
		}

		imp := importer.New(st)
		switch action {
		case "preview":
			res, err := imp.Preview(ctx, header.Filename, data)
			if err != nil {
				respondImportError(w, err)
				return
			}
			api.RespondWithJSON(w, http.StatusOK, res)
		case "apply":
			res, err := imp.Apply(ctx, header.Filename, data)
			if err != nil {
				respondImportError(w, err)
				return
			}
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf(
					"Import applied from %s: %d written, %d failed, %d warnings, %d skipped",
					header.Filename, len(res.Applied), len(res.Errors), len(res.Warnings), len(res.Skipped)))
			}
			api.RespondWithJSON(w, http.StatusOK, res)
		}
	}
}

func respondImportError(w http.ResponseWriter, err error) {
	var schemaErr *importer.SchemaError
	if errors.As(err, &schemaErr) {
		api.RespondWithSchemaError(w, http.StatusBadRequest, schemaErr.Reason, "")
		return
	}
	api.RespondWithSchemaError(w, http.StatusInternalServerError, "Import failed", err.Error())
}

package checks

import (
	"net/http"
	"strconv"
	"strings"

	"VoidCheckTracker/api"
	"VoidCheckTracker/internal/warehouse"
)

const defaultLookupLimit = 15

func lookupLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return defaultLookupLimit
}

// LookupChecks backs the check-number search-as-you-type field.
func LookupChecks(wh *warehouse.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			api.RespondWithPayload(w, true, "", []warehouse.CheckRecord{})
			return
		}
		results, err := wh.SearchChecks(r.Context(), q, lookupLimit(r))
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", results)
	}
}

// LookupOwners backs the account-owner search-as-you-type field.
func LookupOwners(wh *warehouse.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			api.RespondWithPayload(w, true, "", []warehouse.Owner{})
			return
		}
		results, err := wh.SearchOwners(r.Context(), q, lookupLimit(r))
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", results)
	}
}

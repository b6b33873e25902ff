package checks

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"VoidCheckTracker/internal/blob"
	"VoidCheckTracker/internal/store"
	"VoidCheckTracker/internal/warehouse"
)

// StartChecksService wires the record handlers onto their own port. The
// gateway proxies /checks/ here.
func StartChecksService(pgxPool *pgxpool.Pool) {
	st := store.New(pgxPool)
	blobStore, err := blob.NewFromEnv(context.Background())
	if err != nil {
		log.Fatalf("Checks Service: attachment storage init failed: %v", err)
	}
	wh := warehouse.NewClientFromEnv()

	r := mux.NewRouter()
	r.HandleFunc("/checks/requests", CreateVoidCheckRequest(pgxPool)).Methods("POST")
	r.HandleFunc("/checks/requests", GetAllVoidCheckRequests(pgxPool)).Methods("GET")
	r.HandleFunc("/checks/requests/bulk-status", BulkUpdateStatus(pgxPool)).Methods("POST")
	r.HandleFunc("/checks/requests/{id}", GetVoidCheckRequest(pgxPool)).Methods("GET")
	r.HandleFunc("/checks/requests/{id}/update", UpdateVoidCheckRequest(pgxPool)).Methods("POST")
	r.HandleFunc("/checks/requests/{id}/delete", DeleteVoidCheckRequest(pgxPool)).Methods("POST")
	r.HandleFunc("/checks/requests/{id}/attachments", UploadAttachment(pgxPool, blobStore)).Methods("POST")
	r.HandleFunc("/checks/requests/{id}/attachments", ListAttachments(pgxPool)).Methods("GET")
	r.HandleFunc("/checks/attachments/{attachmentId}", DownloadAttachment(pgxPool, blobStore)).Methods("GET")
	r.HandleFunc("/checks/import", ImportVoidChecks(st)).Methods("POST")
	r.HandleFunc("/checks/lookup/checks", LookupChecks(wh)).Methods("GET")
	r.HandleFunc("/checks/lookup/owners", LookupOwners(wh)).Methods("GET")

	log.Println("Checks Service started on :6143")
	if err := http.ListenAndServe(":6143", r); err != nil {
		log.Fatalf("Checks Service failed: %v", err)
	}
}

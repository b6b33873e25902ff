package blob

import (
	"context"
	"io"
	"os"
)

// Store is the attachment/report blob boundary. Keys are opaque paths like
// "attachments/<uuid>" or "reports/<name>.xlsx".
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewFromEnv picks the backend: a GCS bucket when ATTACHMENT_BUCKET is set,
// otherwise a local directory (ATTACHMENT_DIR, default ./attachments).
func NewFromEnv(ctx context.Context) (Store, error) {
	if bucket := os.Getenv("ATTACHMENT_BUCKET"); bucket != "" {
		return NewGCSStore(ctx, bucket)
	}
	dir := os.Getenv("ATTACHMENT_DIR")
	if dir == "" {
		dir = "./attachments"
	}
	return NewDiskStore(dir)
}

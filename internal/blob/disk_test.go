package blob

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte("attachment bytes")
	require.NoError(t, d.Put(ctx, "attachments/abc", "application/pdf", bytes.NewReader(payload)))

	rc, err := d.Get(ctx, "attachments/abc")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, d.Delete(ctx, "attachments/abc"))
	_, err = d.Get(ctx, "attachments/abc")
	assert.Error(t, err)
}

func TestDiskStoreRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	d, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	err = d.Put(ctx, "../outside", "text/plain", bytes.NewReader([]byte("x")))
	assert.ErrorContains(t, err, "invalid blob key")

	_, err = d.Get(ctx, "/etc/passwd")
	assert.ErrorContains(t, err, "invalid blob key")
}

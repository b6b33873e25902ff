package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeIsStable(t *testing.T) {
	a := Compute([]byte("void check attachment"))
	b := Compute([]byte("void check attachment"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestVerify(t *testing.T) {
	data := []byte("some uploaded bytes")
	v := NewVerifier(Compute(data))

	ok, err := v.Verify(data)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify([]byte("tampered bytes"))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWithoutRecordedDigest(t *testing.T) {
	_, err := NewVerifier("").Verify([]byte("anything"))
	assert.Error(t, err)
}

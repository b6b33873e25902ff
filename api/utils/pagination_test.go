package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/checks/requests", nil)
	p, err := ExtractPagination(r)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestExtractPaginationOffsets(t *testing.T) {
	r := httptest.NewRequest("GET", "/checks/requests?page=3&limit=10", nil)
	p, err := ExtractPagination(r)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Offset)
}

func TestExtractPaginationRejectsBadValues(t *testing.T) {
	for _, q := range []string{"page=0", "page=abc", "limit=-5"} {
		r := httptest.NewRequest("GET", "/checks/requests?"+q, nil)
		_, err := ExtractPagination(r)
		assert.Error(t, err, q)
	}
}

func TestSetPaginationStats(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 25}
	p.SetPaginationStats(51)
	assert.Equal(t, 51, p.TotalRecords)
	assert.Equal(t, 3, p.TotalPages)

	p.SetPaginationStats(0)
	assert.Equal(t, 0, p.TotalPages)
}

package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Client talks to the read-only data-warehouse lookup service backing the
// check-number and owner autocomplete fields. The warehouse is an external
// collaborator; this client is the whole contract surface.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientFromEnv reads WAREHOUSE_URL.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("WAREHOUSE_URL"))
}

// CheckRecord is one issued-check row as the warehouse reports it.
type CheckRecord struct {
	CheckNumber string `json:"check_number"`
	OwnerName   string `json:"owner_name"`
	Amount      string `json:"amount"`
	IssueDate   string `json:"issue_date"`
}

// Owner is one account-owner row for the owner autocomplete.
type Owner struct {
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
}

func (c *Client) get(ctx context.Context, path, q string, limit int, out interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("warehouse lookup not configured (WAREHOUSE_URL empty)")
	}
	u := fmt.Sprintf("%s%s?q=%s&limit=%s", c.baseURL, path,
		url.QueryEscape(q), strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("warehouse request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warehouse returned status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("warehouse response decode: %w", err)
	}
	return nil
}

// SearchChecks runs the check-number prefix search.
func (c *Client) SearchChecks(ctx context.Context, q string, limit int) ([]CheckRecord, error) {
	var out []CheckRecord
	if err := c.get(ctx, "/checks", q, limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchOwners runs the owner-name substring search.
func (c *Client) SearchOwners(ctx context.Context, q string, limit int) ([]Owner, error) {
	var out []Owner
	if err := c.get(ctx, "/owners", q, limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

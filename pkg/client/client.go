package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the budgetlord SDK client.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient creates a new budgetlord client.
// endpoint defaults to "http://127.0.0.1:8091" if empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = "http://127.0.0.1:8091"
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken sets the bearer token used for authenticated endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Ping checks the health of the daemon.
func (c *Client) Ping(ctx context.Context) (Status, error) {
	var status Status
	if err := c.getJSON(ctx, "/v1/health", &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// Rollup fetches the spending total for the subtree rooted at rootID.
// mode is "bfs" or "dfs"; empty defaults to bfs server-side.
func (c *Client) Rollup(ctx context.Context, rootID int64, mode string) (RollupResult, error) {
	path := fmt.Sprintf("/v1/rollup?root=%d", rootID)
	if mode != "" {
		path += "&mode=" + mode
	}
	var res RollupResult
	if err := c.getJSON(ctx, path, &res); err != nil {
		return RollupResult{}, err
	}
	return res, nil
}

// Cycles fetches the circular goal-dependency report.
func (c *Client) Cycles(ctx context.Context) (CycleReport, error) {
	var report CycleReport
	if err := c.getJSON(ctx, "/v1/goals/cycles", &report); err != nil {
		return CycleReport{}, err
	}
	return report, nil
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.getJSON(ctx, "/v1/categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ListGoals fetches all goals.
func (c *Client) ListGoals(ctx context.Context) ([]Goal, error) {
	var goals []Goal
	if err := c.getJSON(ctx, "/v1/goals", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// AddTransaction posts a new transaction. Requires a token.
func (c *Client) AddTransaction(ctx context.Context, categoryID, amountCents int64, note string) (int64, error) {
	payload := map[string]interface{}{
		"category_id":  categoryID,
		"amount_cents": amountCents,
		"note":         note,
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.postJSON(ctx, "/v1/transactions", payload, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

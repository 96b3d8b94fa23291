// Package remote talks to the spreadsheet-backed logging endpoint and
// mirrors ledger mutations to it best-effort.
//
// The endpoint is a single URL speaking an action-based JSON dialect:
// reads are GET requests with query parameters, writes are POSTed JSON
// bodies. It is untrusted: any failure is reported as a transient status
// and never affects local state.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"scanledger/internal/common"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// response is the envelope every action returns. Status is "ok" or "error";
// Message is human-readable and only meaningful on error.
type response struct {
	Status   string   `json:"status"`
	Message  string   `json:"message,omitempty"`
	Barcodes []string `json:"barcodes,omitempty"`
}

func (c *Client) get(ctx context.Context, params url.Values) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer res.Body.Close()

	// non-2xx and status:"error" are the same failure class
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http %d", common.ErrUnavailable, res.StatusCode)
	}

	var out response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, body any) (*response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http %d", common.ErrUnavailable, res.StatusCode)
	}

	var out response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return &out, nil
}

// Validate checks the passcode against the endpoint. A status:"error" reply
// means the passcode was rejected.
func (c *Client) Validate(ctx context.Context, passcode string) error {
	params := url.Values{}
	params.Set("action", "validate")
	params.Set("passcode", passcode)

	res, err := c.get(ctx, params)
	if err != nil {
		return err
	}
	if res.Status == "error" {
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, res.Message)
	}
	return nil
}

// LoadDate returns the codes the endpoint has logged for the given calendar
// day (YYYY-MM-DD).
func (c *Client) LoadDate(ctx context.Context, passcode, date string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "loadDate")
	params.Set("passcode", passcode)
	params.Set("date", date)

	res, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if res.Status == "error" {
		return nil, fmt.Errorf("%w: %s", common.ErrUnavailable, res.Message)
	}
	return res.Barcodes, nil
}

// LogBarcode appends a single scan to the remote log.
func (c *Client) LogBarcode(ctx context.Context, passcode, code, timestamp string) error {
	body := map[string]any{
		"action":    "logBarcode",
		"passcode":  passcode,
		"barcode":   code,
		"timestamp": timestamp,
	}

	res, err := c.post(ctx, body)
	if err != nil {
		return err
	}
	if res.Status == "error" {
		return fmt.Errorf("%w: %s", common.ErrUnavailable, res.Message)
	}
	return nil
}

// SaveBatch uploads a whole session snapshot. The endpoint replaces the
// session's previous contents, so the latest snapshot always wins.
func (c *Client) SaveBatch(ctx context.Context, passcode, sessionID, sessionName string, codes []string) error {
	body := map[string]any{
		"action":      "saveBatch",
		"passcode":    passcode,
		"sessionID":   sessionID,
		"sessionName": sessionName,
		"barcodes":    codes,
	}

	res, err := c.post(ctx, body)
	if err != nil {
		return err
	}
	if res.Status == "error" {
		return fmt.Errorf("%w: %s", common.ErrUnavailable, res.Message)
	}
	return nil
}

// DeleteSession removes a previously uploaded session from the endpoint.
func (c *Client) DeleteSession(ctx context.Context, passcode, sessionID string) error {
	body := map[string]any{
		"action":    "deleteSession",
		"passcode":  passcode,
		"sessionID": sessionID,
	}

	res, err := c.post(ctx, body)
	if err != nil {
		return err
	}
	if res.Status == "error" {
		return fmt.Errorf("%w: %s", common.ErrUnavailable, res.Message)
	}
	return nil
}

// Package tracking talks to the CMS backend's package tracking endpoint.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Status is what the backend knows about a package. Found is false when
// the backend answered but had no record.
type Status struct {
	Found    bool
	Status   string
	Location string
	ETA      string
}

// Provider looks up a package by tracking id.
type Provider interface {
	Fetch(ctx context.Context, trackingID string) (Status, error)
}

var ErrUpstream = errors.New("tracking service error")

// Client implements Provider over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type trackingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Status               string `json:"status"`
		CurrentLocation      string `json:"currentLocation"`
		ExpectedDeliveryDate string `json:"expectedDeliveryDate"`
	} `json:"data"`
}

// Fetch calls GET {baseURL}/api/tracking/{id}. Network failures, non-2xx
// answers and undecodable bodies are returned as errors wrapping
// ErrUpstream; success=false or a missing data object is a normal
// not-found result.
func (c *Client) Fetch(ctx context.Context, trackingID string) (Status, error) {
	path := "/api/tracking/" + url.PathEscape(trackingID)
	var out trackingResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return Status{}, err
	}
	if !out.Success || out.Data == nil {
		return Status{Found: false}, nil
	}
	return Status{
		Found:    true,
		Status:   out.Data.Status,
		Location: out.Data.CurrentLocation,
		ETA:      out.Data.ExpectedDeliveryDate,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s returned %d: %s", ErrUpstream, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	return nil
}

// Package cloudflare is a minimal Cloudflare API client for the A records of
// public stacks.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const baseURL = "https://api.cloudflare.com/client/v4"

// Client is a minimal Cloudflare API client for DNS record management.
type Client struct {
	apiToken   string
	httpClient *http.Client
}

// Record represents a Cloudflare DNS record.
type Record struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl,omitempty"`
	Proxied bool   `json:"proxied"`
	Comment string `json:"comment,omitempty"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type zoneResult struct {
	ID string `json:"id"`
}

type resultInfo struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

type listResponse struct {
	Success    bool       `json:"success"`
	Errors     []apiError `json:"errors"`
	Result     []Record   `json:"result"`
	ResultInfo resultInfo `json:"result_info"`
}

// NewClient creates a new Cloudflare API client.
func NewClient(apiToken string) *Client {
	return &Client{
		apiToken:   apiToken,
		httpClient: &http.Client{},
	}
}

// GetZoneID returns the zone ID for the given zone name.
func (c *Client) GetZoneID(ctx context.Context, zone string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/zones?"+url.Values{"name": {zone}}.Encode(), nil)
	if err != nil {
		return "", err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("get zone ID: %w", err)
	}

	var zones []zoneResult
	if err := json.Unmarshal(resp.Result, &zones); err != nil {
		return "", fmt.Errorf("parse zones: %w", err)
	}

	if len(zones) == 0 {
		return "", fmt.Errorf("no zone found for %s", zone)
	}

	return zones[0].ID, nil
}

// ListDNSRecords returns the records in the zone called name with the given
// type. Empty filters match everything.
func (c *Client) ListDNSRecords(ctx context.Context, zoneID, recordType, name string) ([]Record, error) {
	var all []Record
	page := 1

	for {
		q := url.Values{"per_page": {"100"}, "page": {fmt.Sprint(page)}}
		if recordType != "" {
			q.Set("type", recordType)
		}
		if name != "" {
			q.Set("name", name)
		}
		req, err := c.newRequest(ctx, http.MethodGet,
			fmt.Sprintf("/zones/%s/dns_records?%s", zoneID, q.Encode()), nil)
		if err != nil {
			return nil, err
		}

		var resp listResponse
		if err := c.do(req, &resp); err != nil {
			return nil, fmt.Errorf("list DNS records page %d: %w", page, err)
		}

		all = append(all, resp.Result...)

		if page >= resp.ResultInfo.TotalPages {
			break
		}
		page++
	}

	return all, nil
}

// CreateDNSRecord creates record in the zone.
func (c *Client) CreateDNSRecord(ctx context.Context, zoneID string, record Record) (Record, error) {
	return c.writeRecord(ctx, http.MethodPost, fmt.Sprintf("/zones/%s/dns_records", zoneID), record)
}

// UpdateDNSRecord overwrites the record with the given ID.
func (c *Client) UpdateDNSRecord(ctx context.Context, zoneID, recordID string, record Record) (Record, error) {
	return c.writeRecord(ctx, http.MethodPut, fmt.Sprintf("/zones/%s/dns_records/%s", zoneID, recordID), record)
}

// UpsertRecord makes sure exactly the desired record exists: an existing
// record with the same type and name is updated, otherwise one is created.
func (c *Client) UpsertRecord(ctx context.Context, zoneID string, record Record) (Record, error) {
	existing, err := c.ListDNSRecords(ctx, zoneID, record.Type, record.Name)
	if err != nil {
		return Record{}, err
	}
	for _, r := range existing {
		if r.Type != record.Type || r.Name != record.Name {
			continue
		}
		if r.Content == record.Content && r.Proxied == record.Proxied && r.TTL == record.TTL && r.Comment == record.Comment {
			return r, nil
		}
		return c.UpdateDNSRecord(ctx, zoneID, r.ID, record)
	}
	return c.CreateDNSRecord(ctx, zoneID, record)
}

func (c *Client) writeRecord(ctx context.Context, method, path string, record Record) (Record, error) {
	record.ID = ""
	body, err := json.Marshal(record)
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return Record{}, err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return Record{}, fmt.Errorf("write DNS record %s: %w", record.Name, err)
	}

	var out Record
	if err := json.Unmarshal(resp.Result, &out); err != nil {
		return Record{}, fmt.Errorf("parse record: %w", err)
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}

	return nil
}

// APIError is a non-2xx response from the Cloudflare API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed when repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

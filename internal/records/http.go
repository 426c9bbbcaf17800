package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenSource supplies the access token attached to each request. It is called
// per request so the token can follow the active session.
type TokenSource func(ctx context.Context) string

// httpClient implements Client against a PostgREST-style REST surface
// (GET /rest/v1/{table}?col=eq.val&order=col.desc, POST to insert, DELETE with
// filters, exact counts via the Prefer header and Content-Range).
type httpClient struct {
	baseURL     string
	apiKey      string
	tokenSource TokenSource
	http        *http.Client
}

// Ensure httpClient implements Client.
var _ Client = (*httpClient)(nil)

// HTTPOption configures the HTTP client.
type HTTPOption func(*httpClient)

// WithTokenSource sets the per-request access-token source.
func WithTokenSource(src TokenSource) HTTPOption {
	return func(c *httpClient) { c.tokenSource = src }
}

// WithHTTPClient overrides the underlying *http.Client (used in tests).
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *httpClient) { c.http = hc }
}

// NewHTTPClient creates a record-service client for the REST endpoint at
// baseURL. apiKey is sent on every request; the bearer token, when a token
// source is configured, scopes requests to the acting user.
func NewHTTPClient(baseURL, apiKey string, opts ...HTTPOption) Client {
	c := &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) endpoint(table string) string {
	return c.baseURL + "/rest/v1/" + url.PathEscape(table)
}

// setHeaders attaches auth headers. The data service performs its own
// authorization; this client only forwards credentials.
func (c *httpClient) setHeaders(ctx context.Context, req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	token := c.apiKey
	if c.tokenSource != nil {
		if t := c.tokenSource(ctx); t != "" {
			token = t
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func filterQuery(q url.Values, filters []Filter) {
	for _, f := range filters {
		q.Set(f.Column, fmt.Sprintf("eq.%v", f.Value))
	}
}

func (c *httpClient) Select(ctx context.Context, table string, opts SelectOptions) ([]Record, error) {
	q := url.Values{}
	filterQuery(q, opts.Filters)
	if opts.Order != nil {
		dir := "asc"
		if opts.Order.Descending {
			dir = "desc"
		}
		q.Set("order", opts.Order.Column+"."+dir)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(table)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("select: build request: %w", err)
	}
	c.setHeaders(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("select %s: read response: %w", table, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, wrapStatusError("select "+table, resp.StatusCode, truncate(body))
	}

	var recs []Record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("select %s: parse response: %w", table, err)
	}
	return recs, nil
}

func (c *httpClient) Insert(ctx context.Context, table string, record Record) (Record, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("insert %s: encode record: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(table), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("insert: build request: %w", err)
	}
	c.setHeaders(ctx, req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("insert %s: read response: %w", table, err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, wrapStatusError("insert "+table, resp.StatusCode, truncate(body))
	}

	// return=representation yields an array holding the inserted row.
	var recs []Record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("insert %s: parse response: %w", table, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("insert %s: empty representation in response", table)
	}
	return recs[0], nil
}

func (c *httpClient) Delete(ctx context.Context, table string, filters ...Filter) error {
	q := url.Values{}
	filterQuery(q, filters)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(table)+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("delete: build request: %w", err)
	}
	c.setHeaders(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return wrapStatusError("delete "+table, resp.StatusCode, truncate(body))
	}
	return nil
}

func (c *httpClient) Count(ctx context.Context, table string, filters ...Filter) (int, error) {
	q := url.Values{}
	filterQuery(q, filters)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint(table)+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("count: build request: %w", err)
	}
	c.setHeaders(ctx, req)
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, wrapStatusError("count "+table, resp.StatusCode, resp.Status)
	}

	// The exact total rides in Content-Range as "<from>-<to>/<total>".
	contentRange := resp.Header.Get("Content-Range")
	slash := strings.LastIndex(contentRange, "/")
	if slash < 0 {
		return 0, fmt.Errorf("count %s: missing Content-Range header", table)
	}
	total, err := strconv.Atoi(contentRange[slash+1:])
	if err != nil {
		return 0, fmt.Errorf("count %s: parse Content-Range %q: %w", table, contentRange, err)
	}
	return total, nil
}

// truncate limits response bodies included in errors so credentials or large
// payloads never leak into logs.
func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "... (truncated)"
	}
	return string(body)
}

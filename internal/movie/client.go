// Package movie proxies catalog searches to the OMDb API.
package movie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/ayush/movie-collection/backend/internal/metrics"
)

// CatalogPageSize is the fixed number of entries per catalog page.
const CatalogPageSize = 10

// ErrNoResults is returned when the catalog answers Response "False".
var ErrNoResults = errors.New("no catalog results")

// UpstreamError is a non-2xx answer from the catalog.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("omdb returned %d: %s", e.Status, e.Message)
}

// Entry is one item of an OMDb search result.
type Entry struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// SearchResult is one catalog page.
type SearchResult struct {
	Items []Entry
	Total int64
}

type searchResponse struct {
	Search       []Entry `json:"Search"`
	TotalResults string  `json:"totalResults"`
	Response     string  `json:"Response"`
	Error        string  `json:"Error"`
}

// checkResp returns an UpstreamError if the status is not 2xx, carrying the
// catalog's own error text when the body has one.
func checkResp(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := string(body)
	var sr searchResponse
	if json.Unmarshal(body, &sr) == nil && sr.Error != "" {
		msg = sr.Error
	}
	return &UpstreamError{Status: resp.StatusCode, Message: msg}
}

// Client calls the OMDb search endpoint over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}
}

// Search calls GET ?apikey=&s=&page=.
func (c *Client) Search(ctx context.Context, term string, page int) (*SearchResult, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("omdb base url: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("s", term)
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("omdb request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordCatalog("error")
		// url.Error would echo the api key back to the caller.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("omdb search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp); err != nil {
		metrics.RecordCatalog("error")
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		metrics.RecordCatalog("error")
		return nil, fmt.Errorf("omdb search: decode: %w", err)
	}
	if sr.Response == "False" {
		metrics.RecordCatalog("empty")
		return nil, ErrNoResults
	}

	total, _ := strconv.ParseInt(sr.TotalResults, 10, 64)
	metrics.RecordCatalog("ok")
	return &SearchResult{Items: sr.Search, Total: total}, nil
}

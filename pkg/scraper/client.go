package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lead-scraper-go/pkg/models"
)

const (
	// MaxBodySize caps how much of a /scrape response is read.
	MaxBodySize = int64(10 * 1024 * 1024)

	userAgent = "lead-scraper-cli/1.0"
)

// Client talks to the scrape job backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a job client. A zero timeout leaves the call bounded
// only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	// Remove trailing slash from base URL
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DownloadPath returns the download path for a produced file. The filename
// is inserted as returned by the backend, without escaping.
func DownloadPath(filename string) string {
	return "/download/" + filename
}

// DownloadURL resolves DownloadPath against the base URL.
func (c *Client) DownloadURL(filename string) string {
	return c.baseURL + DownloadPath(filename)
}

// buildRequest creates an HTTP request with proper headers
func (c *Client) buildRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := SubmissionIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	return req, nil
}

// Submit posts one scrape job and classifies the outcome. On failure the
// returned error is always a *ScraperError.
func (c *Client) Submit(ctx context.Context, scrapeReq models.ScrapeRequest) (*Success, error) {
	jsonData, err := json.Marshal(scrapeReq)
	if err != nil {
		return nil, newTransportError("failed to marshal request", err)
	}

	req, err := c.buildRequest(ctx, http.MethodPost, "/scrape", bytes.NewReader(jsonData))
	if err != nil {
		return nil, newTransportError("failed to build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError("failed to call job endpoint", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, newTransportError("failed to read response", err)
	}

	result, err := models.ParseScrapeResponse(body)
	if err != nil {
		return nil, newTransportError("failed to decode response", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || !result.IsSuccess() {
		return nil, newApplicationError(resp.StatusCode, result.Status, result.Message)
	}

	summary, err := result.Summary()
	if err != nil {
		return nil, newTransportError("failed to decode summary", err)
	}

	return &Success{
		Message:      summary.Message,
		TotalLeads:   summary.TotalLeads,
		Filename:     result.Filename,
		DownloadPath: DownloadPath(result.Filename),
		DownloadURL:  c.DownloadURL(result.Filename),
	}, nil
}

// Download streams a produced file into w and returns the number of bytes
// written.
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) (int64, error) {
	req, err := c.buildRequest(ctx, http.MethodGet, DownloadPath(filename), nil)
	if err != nil {
		return 0, newTransportError("failed to build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, newTransportError("failed to call download endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return 0, newApplicationError(resp.StatusCode, "", msg)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, newTransportError("failed to read download", err)
	}
	return n, nil
}

package bugview

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"bugcrawl/pkg/config"
	"bugcrawl/pkg/errors"
	"bugcrawl/pkg/logger"
)

// Client is an HTTP client for the bugview API. Configuration is fixed at
// construction: user agent, connect timeout, and total request timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     logger.Logger
}

// NewClient creates a new bugview API client
func NewClient(cfg *config.BugviewConfig, log logger.Logger) *Client {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    log,
	}
}

// BaseURL returns the base URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the configured user agent
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.KindNetwork, "request error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.KindNetwork, "failed to create request: %v", err)
	}

	return c.doRequest(req)
}

// checkResponseStatus classifies the HTTP response status. Any status
// outside 200-299 is a protocol error carrying the status line.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	c.logger.WarnWithFields("unexpected response status", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})
	return errors.NewProtocol(resp.StatusCode, "unexpected response code: %s", resp.Status)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.KindNetwork, "failed to read response body: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		// Create a preview of the body for debugging
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.New(errors.KindDecode, "failed to parse JSON: %v", err)
	}

	return nil
}

// FetchListingPage fetches one page of the issue listing at the given offset
func (c *Client) FetchListingPage(sort string, offset int) (*ListingPage, error) {
	url, err := ListingURL(c.baseURL, sort, offset)
	if err != nil {
		return nil, err
	}

	var page ListingPage
	if err := c.GetJSON(url, &page); err != nil {
		c.logger.ErrorWithFields("failed to fetch listing page", map[string]interface{}{
			"offset": offset,
			"sort":   sort,
			"error":  err.Error(),
		})
		return nil, err
	}

	return &page, nil
}

// FetchIssue fetches one issue's full JSON body. Bodies larger than maxSize
// fail with an oversize error and are discarded; bodies that are not valid
// JSON fail with a decode error. The returned bytes are stored verbatim by
// the caller.
func (c *Client) FetchIssue(key string, maxSize int64) ([]byte, error) {
	url, err := IssueURL(c.baseURL, key)
	if err != nil {
		return nil, err
	}

	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.KindNetwork, "failed to read issue body: %v", err)
	}

	if int64(len(body)) > maxSize {
		return nil, errors.New(errors.KindOversize,
			"issue %s was too big (%d bytes, max is %d bytes)", key, len(body), maxSize)
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.KindDecode, "issue %s body is not valid JSON", key)
	}

	return body, nil
}

package met

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"metharvest/pkg/config"
	"metharvest/pkg/logger"
	"metharvest/pkg/metrics"
)

// Client is a Met collection API client. Search and object lookups are
// single-shot; image downloads carry a bounded fixed-delay retry loop.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgents   []string
	retries      int
	retryDelay   time.Duration
	minImageSize int

	rng   *rand.Rand
	rngMu sync.Mutex

	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewClient creates a new collection API client from HTTP configuration.
func NewClient(cfg *config.HTTPConfig, log logger.Logger, m *metrics.Metrics) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      baseURL,
		userAgents:   cfg.UserAgents,
		retries:      cfg.Retries,
		retryDelay:   cfg.RetryDelay,
		minImageSize: cfg.MinImageSize,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       log,
		metrics:      m,
	}
}

// SetRand replaces the random source used for user-agent rotation. Tests
// supply a seeded source for deterministic sequences.
func (c *Client) SetRand(rng *rand.Rand) {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	c.rng = rng
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// randomUserAgent picks a user-agent string for the next request.
func (c *Client) randomUserAgent() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.userAgents[c.rng.Intn(len(c.userAgents))]
}

// doGet performs a GET request with a randomized user-agent header.
func (c *Client) doGet(url, phase string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	if ua := c.randomUserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	start := time.Now()
	c.metrics.IncRequest(phase)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	c.metrics.ObserveDuration(duration)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus maps an HTTP status to the error taxonomy.
func checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Type: ErrorTypeNotFound, Message: "resource not found", Code: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Error{Type: ErrorTypeRateLimit, Message: "rate limit exceeded", Code: resp.StatusCode}
	case resp.StatusCode >= 500:
		return &Error{Type: ErrorTypeServerError, Message: "server error", Code: resp.StatusCode}
	default:
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
}

// GetJSON performs a GET request and decodes the JSON response into target.
// No retry: a transport or parse failure propagates to the caller.
func (c *Client) GetJSON(url string, target interface{}, phase string) error {
	resp, err := c.doGet(url, phase)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// SearchObjects queries the search endpoint for objects with images.
func (c *Client) SearchObjects(query string) (*SearchResult, error) {
	var result SearchResult
	if err := c.GetJSON(SearchURL(c.baseURL, query), &result, "search"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetObject fetches the full record for one object ID.
func (c *Client) GetObject(objectID int) (*Object, error) {
	var obj Object
	if err := c.GetJSON(ObjectURL(c.baseURL, objectID), &obj, "object"); err != nil {
		return nil, err
	}
	return &obj, nil
}

// DownloadImage fetches an image payload. Each attempt uses a fresh
// randomized user-agent; an attempt succeeds only when the status is 2xx
// and the payload is at least minImageSize bytes. Failed attempts are
// separated by a fixed delay, no backoff. Exhausting all attempts returns
// a terminal error and no data.
func (c *Client) DownloadImage(url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			c.metrics.IncRetries()
			time.Sleep(c.retryDelay)
		}

		data, err := c.downloadOnce(url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var apiErr *Error
		if e, ok := err.(*Error); ok {
			apiErr = e
			c.metrics.IncError(string(e.Type))
		}

		c.logger.DebugWithFields("image attempt failed", map[string]interface{}{
			"url":     url,
			"attempt": attempt,
			"error":   err.Error(),
		})

		if apiErr != nil && !IsRetryable(apiErr.Type) {
			break
		}
	}

	return nil, &Error{
		Type:    ErrorTypeExhausted,
		Message: fmt.Sprintf("download failed after %d attempts: %v", c.retries, lastErr),
	}
}

// downloadOnce performs a single image fetch attempt.
func (c *Client) downloadOnce(url string) ([]byte, error) {
	resp, err := c.doGet(url, "image")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read image data: %v", err),
		}
	}

	// Payloads under the threshold are placeholder or error images.
	if len(data) < c.minImageSize {
		return nil, &Error{
			Type:    ErrorTypeTooSmall,
			Message: fmt.Sprintf("image payload %d bytes, below %d byte minimum", len(data), c.minImageSize),
		}
	}

	return data, nil
}

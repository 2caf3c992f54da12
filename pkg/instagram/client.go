package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"igfetch/pkg/logger"
	"igfetch/pkg/retry"
)

// ErrorType classifies Instagram API errors
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypePrivate     ErrorType = "private"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an Instagram API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("instagram %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// IsRetryable reports whether an error type is worth retrying
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// Client represents an Instagram web API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	maxRetries int
	logger     logger.Logger
}

// NewClient creates a new Instagram API client
func NewClient(timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		},
		baseURL:    BaseURL,
		maxRetries: maxRetries,
		logger:     log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL overrides the API base URL. Intended for tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

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
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
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
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	return c.doRequest(req)
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
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
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
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeAuth,
			Message: "authentication required",
			Code:    resp.StatusCode,
		}
	case http.StatusForbidden:
		c.logger.WarnWithFields("access forbidden", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypePrivate,
			Message: "content is private",
			Code:    resp.StatusCode,
		}
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 400 {
			return &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

// FetchPost fetches the metadata document for a post by its shortcode
func (c *Client) FetchPost(shortcode string) (*ShortcodeMedia, error) {
	url := fmt.Sprintf("%s%s?%s", c.baseURL, PostInfoEndpoint, postInfoQuery(shortcode))

	c.logger.DebugWithFields("fetching post", map[string]interface{}{
		"shortcode": shortcode,
		"url":       url,
	})

	var response PostResponse
	if err := c.GetJSON(url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch post", map[string]interface{}{
			"shortcode": shortcode,
			"error":     err.Error(),
		})
		return nil, err
	}

	if response.RequiresToLogin {
		c.logger.WarnWithFields("authentication required for post", map[string]interface{}{
			"shortcode": shortcode,
		})
		return nil, &Error{
			Type:    ErrorTypeAuth,
			Message: "Instagram requires authentication to view this post",
			Code:    http.StatusUnauthorized,
		}
	}

	media := response.GraphQL.ShortcodeMedia
	if media == nil {
		return nil, &Error{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no media found for shortcode %s", shortcode),
			Code:    http.StatusNotFound,
		}
	}

	c.logger.DebugWithFields("successfully fetched post", map[string]interface{}{
		"shortcode": shortcode,
		"typename":  media.Typename,
	})

	return media, nil
}

// DownloadMedia downloads a media file from the given URL, retrying
// transient failures with exponential backoff
func (c *Client) DownloadMedia(mediaURL string) ([]byte, error) {
	var data []byte

	op := func() error {
		body, err := c.fetchMedia(mediaURL)
		if err != nil {
			return err
		}
		data = body
		return nil
	}

	err := retry.Do(op, &retry.Config{
		MaxAttempts: c.maxRetries,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf: func(err error) bool {
			if apiErr, ok := err.(*Error); ok {
				return IsRetryable(apiErr.Type)
			}
			return false
		},
		Context: context.Background(),
		Logger:  c.logger,
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// fetchMedia performs a single media download attempt
func (c *Client) fetchMedia(mediaURL string) ([]byte, error) {
	c.logger.DebugWithFields("downloading media", map[string]interface{}{
		"url": mediaURL,
	})

	resp, err := c.Get(mediaURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to download media: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("successfully downloaded media", map[string]interface{}{
		"url":  mediaURL,
		"size": len(data),
	})

	return data, nil
}

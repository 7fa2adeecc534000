package spacedevs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spacedash/pkg/config"
	"spacedash/pkg/errors"
	"spacedash/pkg/logger"
	"spacedash/pkg/record"
)

// maxImageSize caps a single image download
const maxImageSize = 32 << 20

// Client talks to the Launch Library 2 API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// listResponse is the envelope of every list endpoint
type listResponse struct {
	Count   int             `json:"count"`
	Results []record.Record `json:"results"`
}

// NewClient creates a new API client
func NewClient(cfg config.APIConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"User-Agent": cfg.UserAgent,
			"Accept":     "application/json",
		},
		baseURL: cfg.BaseURL,
		logger:  log,
	}
}

// BaseURL returns the API root the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs a GET with the configured headers
func (c *Client) doRequest(ctx context.Context, rawURL string, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "failed to create request")
	}
	for key, value := range c.headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    rawURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		e := errors.Wrap(errors.ErrorTypeNetwork, err, "network error")
		e.URL = rawURL
		return nil, e
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus treats anything but 200 as a failure
func (c *Client) checkResponseStatus(resp *http.Response, rawURL string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	c.logger.WarnWithFields("unexpected API status", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    rawURL,
	})
	return errors.StatusError(rawURL, resp.StatusCode)
}

// Fetch issues one GET against endpoint asking for count records and
// returns the "results" array. A body without "results" yields no records.
func (c *Client) Fetch(ctx context.Context, endpoint Endpoint, count int) ([]record.Record, error) {
	rawURL := endpoint.URL(c.baseURL, count)

	resp, err := c.doRequest(ctx, rawURL, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp, rawURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := errors.Wrap(errors.ErrorTypeNetwork, err, "failed to read response body")
		e.URL = rawURL
		return nil, e
	}

	var payload listResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          rawURL,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		e := errors.Wrap(errors.ErrorTypeParsing, err, "failed to parse JSON")
		e.URL = rawURL
		return nil, e
	}

	if payload.Results == nil {
		return []record.Record{}, nil
	}
	return payload.Results, nil
}

// DownloadImage downloads an image and checks that the body really is one
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	resp, err := c.doRequest(ctx, imageURL, "image/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp, imageURL); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "failed to read image")
	}
	if len(data) > maxImageSize {
		return nil, errors.New(errors.ErrorTypeImage, fmt.Sprintf("image larger than %d bytes", maxImageSize))
	}

	format, err := CheckImage(data)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("image downloaded", map[string]interface{}{
		"url":    imageURL,
		"format": format,
		"size":   len(data),
	})
	return data, nil
}

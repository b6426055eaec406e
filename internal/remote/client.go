package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	restPath       = "/rest/v1"
	DefaultTimeout = 10 * time.Second
)

// Client syncs whole tables with the remote backend
type Client interface {
	FetchRows(ctx context.Context, table string, result interface{}) error
	UpsertRows(ctx context.Context, table string, rows interface{}) error
	DeleteRows(ctx context.Context, table string, ids []string) error
	DeleteRowsNotIn(ctx context.Context, table string, ids []string) error
}

// HTTPClient implements Client against a PostgREST (Supabase) endpoint
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewHTTPClient creates a client for the project at baseURL
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + restPath,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// makeRequest performs one REST call and decodes the response into result when non-nil
func (c *HTTPClient) makeRequest(ctx context.Context, method, endpoint string, body interface{}, prefer string, result interface{}) error {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    reqURL,
	}).Debug("Making API request")

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("HTTP request failed")
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		}).Error("API request failed")

		return &APIError{
			Type:       "api_error",
			Message:    fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(respBody)),
			StatusCode: resp.StatusCode,
		}
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		c.logger.WithError(err).WithField("body", string(respBody)).Error("Failed to unmarshal response")
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("API request completed successfully")
	return nil
}

// FetchRows reads every row of table into result
func (c *HTTPClient) FetchRows(ctx context.Context, table string, result interface{}) error {
	endpoint := fmt.Sprintf("/%s?select=*", url.PathEscape(table))
	if err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, "", result); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", table, err)
	}
	return nil
}

// UpsertRows inserts rows, merging on primary key conflicts
func (c *HTTPClient) UpsertRows(ctx context.Context, table string, rows interface{}) error {
	endpoint := fmt.Sprintf("/%s", url.PathEscape(table))
	if err := c.makeRequest(ctx, http.MethodPost, endpoint, rows, "resolution=merge-duplicates,return=minimal", nil); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	return nil
}

// DeleteRows removes the rows with the given ids
func (c *HTTPClient) DeleteRows(ctx context.Context, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	endpoint := fmt.Sprintf("/%s?id=%s", url.PathEscape(table), url.QueryEscape(inFilter("in", ids)))
	if err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil, "", nil); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// DeleteRowsNotIn removes every row whose id is not listed. An empty list is a
// no-op.
func (c *HTTPClient) DeleteRowsNotIn(ctx context.Context, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	endpoint := fmt.Sprintf("/%s?id=%s", url.PathEscape(table), url.QueryEscape(inFilter("not.in", ids)))
	if err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil, "", nil); err != nil {
		return fmt.Errorf("failed to clean %s: %w", table, err)
	}
	return nil
}

// inFilter builds a PostgREST list filter such as in.("a","b")
func inFilter(op string, ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
	}
	return fmt.Sprintf("%s.(%s)", op, strings.Join(quoted, ","))
}

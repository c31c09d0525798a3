package opendigger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/config"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	rl := NewRateLimiter()

	client := &http.Client{
		Timeout:   30 * time.Second,
		Transport: rl.Middleware(http.DefaultTransport),
	}

	return &Client{
		httpClient: client,
		baseURL:    baseURL,
	}
}

func (c *Client) makeRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	return resp, nil
}

// * GetSeries fetches a numeric metric. Keys that are not a year, quarter or
// * month are dropped.
func (c *Client) GetSeries(ctx context.Context, repoName, metric string) (Series, error) {
	raw, err := c.fetchMetric(ctx, repoName, metric)
	if err != nil {
		return nil, err
	}

	series := make(Series, len(raw))
	for key, value := range raw {
		if _, ok := PeriodOf(key); !ok {
			continue
		}
		var v float64
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, errors.NewKind(
				errors.KindUpstreamUnavailable,
				"OPENDIGGER_API_ERROR",
				"Failed to parse OpenDigger metric",
				fmt.Sprintf("Value for %s in %s of %s is not a number", key, metric, repoName),
				err,
				errors.LevelError,
			)
		}
		series[key] = v
	}

	return series, nil
}

// * GetHourlySeries fetches a metric whose values are 168 hourly counters
func (c *Client) GetHourlySeries(ctx context.Context, repoName, metric string) (HourlySeries, error) {
	raw, err := c.fetchMetric(ctx, repoName, metric)
	if err != nil {
		return nil, err
	}

	series := make(HourlySeries, len(raw))
	for key, value := range raw {
		if _, ok := PeriodOf(key); !ok {
			continue
		}
		var counters []int
		if err := json.Unmarshal(value, &counters); err != nil || len(counters) != HoursPerWeek {
			return nil, errors.NewKind(
				errors.KindUpstreamUnavailable,
				"OPENDIGGER_API_ERROR",
				"Failed to parse OpenDigger metric",
				fmt.Sprintf("Value for %s in %s of %s is not %d hourly counters", key, metric, repoName, HoursPerWeek),
				err,
				errors.LevelError,
			)
		}
		series[key] = counters
	}

	return series, nil
}

func (c *Client) fetchMetric(ctx context.Context, repoName, metric string) (map[string]json.RawMessage, error) {
	owner, name, err := config.ParseRepository(repoName)
	if err != nil {
		return nil, errors.NewKind(
			errors.KindInvalidInput,
			"INVALID_REPOSITORY",
			"Invalid repository name",
			fmt.Sprintf("'%s' is not a valid owner/name", repoName),
			err,
			errors.LevelInfo,
		)
	}

	path := fmt.Sprintf("/%s/%s/%s.json", url.PathEscape(owner), url.PathEscape(name), url.PathEscape(metric))
	resp, err := c.makeRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, errors.NewKind(
			errors.KindUpstreamUnavailable,
			"OPENDIGGER_API_ERROR",
			"Failed to fetch metric from OpenDigger",
			fmt.Sprintf("Could not retrieve %s for %s", metric, repoName),
			err,
			errors.LevelError,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewKind(
			errors.KindNotFound,
			"METRIC_NOT_FOUND",
			"Metric not found on OpenDigger",
			fmt.Sprintf("No %s data is published for %s", metric, repoName),
			nil,
			errors.LevelInfo,
		)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewKind(
			errors.KindUpstreamUnavailable,
			"OPENDIGGER_API_ERROR",
			"Unexpected response from OpenDigger",
			fmt.Sprintf("OpenDigger returned status %d when fetching %s for %s", resp.StatusCode, metric, repoName),
			nil,
			errors.LevelError,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewKind(
			errors.KindUpstreamUnavailable,
			"OPENDIGGER_API_ERROR",
			"Failed to read OpenDigger response",
			fmt.Sprintf("Could not read the %s response body", metric),
			err,
			errors.LevelError,
		)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.NewKind(
			errors.KindUpstreamUnavailable,
			"OPENDIGGER_API_ERROR",
			"Failed to parse OpenDigger response",
			fmt.Sprintf("Could not understand the %s data returned for %s", metric, repoName),
			err,
			errors.LevelError,
		)
	}

	logger.Debug("Fetched %s for %s (%d points)", metric, repoName, len(raw))
	return raw, nil
}

package quartz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// DefaultBaseURL is the public Quartz Open Solar API endpoint.
const DefaultBaseURL = "https://api.quartz.solar"

// forecastRow is the wire shape of one forecast sample. Timestamps arrive
// either as RFC3339 or as a bare "2006-01-02T15:04:05", which is taken as
// UTC.
type forecastRow struct {
	Timestamp string  `json:"timestamp"`
	PowerKW   float64 `json:"power_kw"`
}

// Client fetches site forecasts from the Quartz API. A circuit breaker
// sits in front of the HTTP client so a dead provider fails fast during
// norm sampling instead of retrying on every occasion.
type Client struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

// NewClient creates a Quartz API client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "quartz-api",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		client:  client,
		breaker: breaker,
		baseURL: baseURL,
	}
}

// GetForecast fetches one forecast for a site. The provider chooses the
// horizon and resolution; capacity is passed through so the response is
// already scaled to the site.
func (c *Client) GetForecast(ctx context.Context, name string, capacityGW, latitude, longitude float64) ([]models.ForecastPoint, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchForecast(ctx, name, capacityGW, latitude, longitude)
	})
	if err != nil {
		return nil, err
	}

	points, ok := result.([]models.ForecastPoint)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return points, nil
}

func (c *Client) fetchForecast(ctx context.Context, name string, capacityGW, latitude, longitude float64) ([]models.ForecastPoint, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"name":        name,
			"latitude":    fmt.Sprintf("%.4f", latitude),
			"longitude":   fmt.Sprintf("%.4f", longitude),
			"capacity_gw": fmt.Sprintf("%.4f", capacityGW),
		}).
		Get(c.baseURL + "/forecast")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast for %s: %w", name, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("quartz API returned status %d for %s", resp.StatusCode(), name)
	}

	var rows []forecastRow
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("forecast response has no data for %s", name)
	}

	points := make([]models.ForecastPoint, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTimestamp(row.Timestamp)
		if err != nil {
			continue
		}
		points = append(points, models.ForecastPoint{
			Timestamp: ts.UTC(),
			PowerKW:   row.PowerKW,
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("forecast response has no usable timestamps for %s", name)
	}

	return points, nil
}

// parseTimestamp accepts the timestamp formats the provider has been seen
// to emit. Formats without a zone are interpreted as UTC.
func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}

	formats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, format := range formats {
		if ts, err := time.ParseInLocation(format, value, time.UTC); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

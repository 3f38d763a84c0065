package quartz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// fastClient strips retry delays so failure paths stay quick in tests.
func fastClient(baseURL string) *Client {
	c := NewClient(baseURL)
	c.client.SetRetryCount(0)
	c.client.SetTimeout(5 * time.Second)
	return c
}

func TestGetForecast(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"name":        r.URL.Query().Get("name"),
			"latitude":    r.URL.Query().Get("latitude"),
			"longitude":   r.URL.Query().Get("longitude"),
			"capacity_gw": r.URL.Query().Get("capacity_gw"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"timestamp": "2025-06-21T12:00:00Z", "power_kw": 1500000},
			{"timestamp": "2025-06-21T13:00:00", "power_kw": 1600000}
		]`)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	points, err := client.GetForecast(context.Background(), "Spain", 30, 40.2, -3.6)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	if points[0].PowerKW != 1500000 {
		t.Errorf("Expected 1500000 kW, got %v", points[0].PowerKW)
	}

	// The zone-free second timestamp is taken as UTC.
	want := time.Date(2025, 6, 21, 13, 0, 0, 0, time.UTC)
	if !points[1].Timestamp.Equal(want) {
		t.Errorf("Expected naive timestamp as UTC %v, got %v", want, points[1].Timestamp)
	}

	if gotQuery["name"] != "Spain" {
		t.Errorf("Expected name query param Spain, got %s", gotQuery["name"])
	}
	if gotQuery["latitude"] != "40.2000" {
		t.Errorf("Expected latitude 40.2000, got %s", gotQuery["latitude"])
	}
	if gotQuery["capacity_gw"] != "30.0000" {
		t.Errorf("Expected capacity_gw 30.0000, got %s", gotQuery["capacity_gw"])
	}
}

func TestGetForecastServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	_, err := client.GetForecast(context.Background(), "Spain", 30, 40.2, -3.6)
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
}

func TestGetForecastEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	_, err := client.GetForecast(context.Background(), "Spain", 30, 40.2, -3.6)
	if err == nil {
		t.Fatal("Expected error for empty forecast")
	}
}

func TestGetForecastMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "an array"}`)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	_, err := client.GetForecast(context.Background(), "Spain", 30, 40.2, -3.6)
	if err == nil {
		t.Fatal("Expected error for malformed response")
	}
}

func TestGetForecastSkipsBadTimestamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"timestamp": "yesterday-ish", "power_kw": 100},
			{"timestamp": "2025-06-21T12:00:00Z", "power_kw": 200}
		]`)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	points, err := client.GetForecast(context.Background(), "Spain", 30, 40.2, -3.6)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("Expected unparseable row skipped, got %d points", len(points))
	}
	if points[0].PowerKW != 200 {
		t.Errorf("Expected the valid row to survive, got %v", points[0].PowerKW)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	ctx := context.Background()

	// Five consecutive failures trip the breaker.
	for i := 0; i < 5; i++ {
		if _, err := client.GetForecast(ctx, "Spain", 30, 40.2, -3.6); err == nil {
			t.Fatalf("Call %d: expected failure", i+1)
		}
	}
	requestsBeforeOpen := requests

	_, err := client.GetForecast(ctx, "Spain", 30, 40.2, -3.6)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Expected open circuit breaker, got %v", err)
	}
	if requests != requestsBeforeOpen {
		t.Errorf("Expected no request while breaker is open, server saw %d extra", requests-requestsBeforeOpen)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-06-21T12:00:00Z", false},
		{"2025-06-21T12:00:00+02:00", false},
		{"2025-06-21T12:00:00", false},
		{"2025-06-21 12:00:00", false},
		{"2025-06-21 12:00", false},
		{"June 21st", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := parseTimestamp(tt.input)
		if tt.wantErr && err == nil {
			t.Errorf("parseTimestamp(%q): expected error", tt.input)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("parseTimestamp(%q): unexpected error %v", tt.input, err)
		}
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/norm"
	"github.com/openclimatefix/global-solar-forecast/internal/storage"
)

// initialPageHTML is served on the root path before the first dashboard
// has been generated.
const initialPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Global Solar Forecast</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center;
               min-height: 100vh; margin: 0;
               background: linear-gradient(135deg, #f6a821 0%, #d35400 100%); color: white; }
        .panel { text-align: center; padding: 40px; }
        h1 { font-size: 2.5em; margin-bottom: 10px; }
        code { background: rgba(255,255,255,0.2); padding: 2px 8px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="panel">
        <h1>&#9728; Global Solar Forecast</h1>
        <p>No dashboard has been generated yet.</p>
        <p>POST to <code>/generate</code> or wait for the next scheduled run.</p>
    </div>
</body>
</html>`

// HandleRoot redirects to the latest dashboard
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	dashboards, err := s.Storage.ListDashboards(r.Context(), 1)
	if err != nil || len(dashboards) == 0 {
		s.serveInitialPage(w)
		return
	}

	latestURL := "/files/" + dashboards[0]
	s.log.Debugf("Redirecting to latest dashboard: %s", latestURL)
	w.Header().Set("Location", latestURL)
	w.WriteHeader(http.StatusFound)
}

// serveInitialPage shows a landing page while no dashboards exist
func (s *Server) serveInitialPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, initialPageHTML)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]interface{}{
			"storage":   string(s.DeploymentMode),
			"countries": len(s.Registry.All()),
			"norm":      s.Config.NormModel,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// HandleGenerate builds and stores a new dashboard (HTTP handler)
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.generateMutex.TryLock() {
		s.log.Warn("Dashboard generation already in progress, rejecting new request")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		response := map[string]interface{}{
			"error":  "Dashboard generation already in progress",
			"status": "conflict",
		}
		json.NewEncoder(w).Encode(response)
		return
	}
	defer s.generateMutex.Unlock()

	s.log.Info("Starting dashboard generation...")

	result, err := s.GenerateDashboard(r.Context())
	if err != nil {
		s.log.Error("Dashboard generation failed", err)
		http.Error(w, "Dashboard generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("Dashboard generation completed", map[string]interface{}{
		"dashboard": result.DashboardURL,
		"countries": result.Countries,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// HandleFileProxy serves stored dashboard files from local disk or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// Security check: prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		s.log.Debugf("File not found: %s", filePath)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// HandleListDashboards lists recent dashboards
func (s *Server) HandleListDashboards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Get limit from query parameter (default 10, capped at 100)
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}

	dashboards, err := s.Storage.ListDashboards(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list dashboards", err)
		http.Error(w, "Failed to list dashboards: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"dashboards": dashboards,
		"count":      len(dashboards),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleCountries lists every tracked country with capacity and location
func (s *Server) HandleCountries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	countries := s.Registry.All()
	response := map[string]interface{}{
		"countries":         countries,
		"count":             len(countries),
		"total_capacity_gw": s.Registry.TotalCapacityGW(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// normPoint is one entry of the /api/norm response series
type normPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	PowerGWNorm float64   `json:"power_gw_norm"`
}

// HandleNorm serves a country's seasonal norm series for the coming hours,
// shaped for direct overlay on a forecast series
func (s *Server) HandleNorm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := strings.ToUpper(r.URL.Query().Get("country"))
	if code == "" {
		http.Error(w, "country parameter required", http.StatusBadRequest)
		return
	}
	info, ok := s.Registry.ByCode(code)
	if !ok {
		http.Error(w, "Unknown country: "+code, http.StatusNotFound)
		return
	}

	// Horizon in hours (default 48, capped at one week)
	hours := 48
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		if parsed, err := strconv.Atoi(hoursStr); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	if hours > 168 {
		hours = 168
	}

	start := time.Now().UTC().Truncate(time.Hour)
	timestamps := make([]time.Time, hours)
	for i := range timestamps {
		timestamps[i] = start.Add(time.Duration(i) * time.Hour)
	}

	site := norm.NewSite(info.Code, info.CapacityGW, info.Latitude, info.Longitude)
	series, err := s.Norms.NormSeries(r.Context(), site, timestamps)
	if err != nil {
		s.log.Error("Norm series failed", err, map[string]interface{}{"country": code})
		http.Error(w, "Failed to compute norm series", http.StatusInternalServerError)
		return
	}

	points := make([]normPoint, len(series))
	for i, p := range series {
		points[i] = normPoint{Timestamp: p.Timestamp, PowerGWNorm: p.PowerGW}
	}

	response := map[string]interface{}{
		"country":     info,
		"model":       s.Config.NormModel,
		"series":      points,
		"series_len":  len(points),
		"computed_at": time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

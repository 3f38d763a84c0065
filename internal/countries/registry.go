package countries

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// Registry holds every country the service tracks: installed capacity and
// fallback coordinates from the capacity CSV, area-weighted centroids from
// the boundary GeoJSON where available, and the centroid's IANA timezone.
// Countries without coordinates from either source are skipped by
// forecasting.
type Registry struct {
	countries []models.CountryInfo
	byCode    map[string]models.CountryInfo
}

// LoadRegistry reads the capacity CSV and boundary GeoJSON. A missing
// boundary file is tolerated (the CSV coordinates then stand alone); a
// missing capacity file is fatal since nothing can be tracked without it.
func LoadRegistry(capacitiesPath, boundariesPath string) (*Registry, error) {
	log := logger.GetGlobalLogger().WithComponent("countries")

	capacities, err := loadCapacities(capacitiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load capacities: %w", err)
	}

	centroids, err := loadCentroids(boundariesPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Boundary file %s missing, using CSV coordinates only", boundariesPath)
			centroids = map[string][2]float64{}
		} else {
			return nil, fmt.Errorf("failed to load boundaries: %w", err)
		}
	}

	countries := make([]models.CountryInfo, 0, len(capacities))
	byCode := make(map[string]models.CountryInfo, len(capacities))
	located := 0

	for _, c := range capacities {
		// Boundary centroids win over CSV coordinates when both exist.
		if centroid, ok := centroids[c.Code]; ok {
			c.Longitude = centroid[0]
			c.Latitude = centroid[1]
		}
		if c.HasCoordinates() {
			c.Timezone = tzLookup(c.Longitude, c.Latitude)
			located++
		} else {
			c.Timezone = "UTC"
		}
		countries = append(countries, c)
		byCode[c.Code] = c
	}

	// Largest installations first; name breaks capacity ties.
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].CapacityGW != countries[j].CapacityGW {
			return countries[i].CapacityGW > countries[j].CapacityGW
		}
		return countries[i].Name < countries[j].Name
	})

	log.Infof("Loaded %d countries (%d with coordinates)", len(countries), located)

	return &Registry{countries: countries, byCode: byCode}, nil
}

// All returns every country, largest capacity first.
func (r *Registry) All() []models.CountryInfo {
	return r.countries
}

// ByCode looks up a country by alpha-3 code.
func (r *Registry) ByCode(code string) (models.CountryInfo, bool) {
	c, ok := r.byCode[strings.ToUpper(code)]
	return c, ok
}

// Forecastable returns the countries a forecast can be issued for: nonzero
// capacity and a known centroid.
func (r *Registry) Forecastable() []models.CountryInfo {
	var out []models.CountryInfo
	for _, c := range r.countries {
		if c.CapacityGW > 0 && c.HasCoordinates() {
			out = append(out, c)
		}
	}
	return out
}

// TotalCapacityGW sums installed capacity over all countries.
func (r *Registry) TotalCapacityGW() float64 {
	total := 0.0
	for _, c := range r.countries {
		total += c.CapacityGW
	}
	return total
}

// loadCapacities parses the capacity CSV: country_code, country_name and
// capacity_gw are required; latitude and longitude are optional fallback
// coordinates. Rows with an empty code or an unparseable capacity are
// skipped.
func loadCapacities(path string) ([]models.CountryInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("capacity CSV has no data rows")
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"country_code", "country_name", "capacity_gw"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("capacity CSV missing column %q", required)
		}
	}

	var countries []models.CountryInfo
	for _, row := range records[1:] {
		code := strings.ToUpper(strings.TrimSpace(row[columns["country_code"]]))
		if code == "" {
			continue
		}
		capacity, err := strconv.ParseFloat(strings.TrimSpace(row[columns["capacity_gw"]]), 64)
		if err != nil || capacity < 0 {
			continue
		}
		country := models.CountryInfo{
			Code:       code,
			Name:       strings.TrimSpace(row[columns["country_name"]]),
			CapacityGW: capacity,
		}
		country.Latitude = optionalFloat(row, columns, "latitude")
		country.Longitude = optionalFloat(row, columns, "longitude")
		countries = append(countries, country)
	}

	return countries, nil
}

// optionalFloat reads a named column as float64, returning 0 when the
// column is absent, empty or malformed.
func optionalFloat(row []string, columns map[string]int, name string) float64 {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0
	}
	return v
}

// loadCentroids computes a centroid per country from the boundary GeoJSON,
// keyed by alpha-3 code.
func loadCentroids(path string) (map[string][2]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	centroids := make(map[string][2]float64, len(fc.Features))
	for _, feature := range fc.Features {
		code := featureCode(feature)
		if code == "" || feature.Geometry == nil {
			continue
		}
		centroid, area := planar.CentroidArea(feature.Geometry)
		if area == 0 {
			continue
		}
		centroids[code] = [2]float64{centroid[0], centroid[1]}
	}

	return centroids, nil
}

// featureCode digs the alpha-3 code out of the property names used by the
// common boundary datasets.
func featureCode(feature *geojson.Feature) string {
	for _, key := range []string{"ISO_A3", "ADM0_A3", "iso_a3", "id"} {
		if v, ok := feature.Properties[key].(string); ok && v != "" && v != "-99" {
			return strings.ToUpper(v)
		}
	}
	if id, ok := feature.ID.(string); ok {
		return strings.ToUpper(id)
	}
	return ""
}

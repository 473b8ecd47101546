package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/airmet/air-quality-monitor/internal/airquality"
	"github.com/sony/gobreaker"
)

// ErrNoResults is returned by Geocode when the address matches no known
// place. It stops the pipeline before any measurement request is issued.
var ErrNoResults = errors.New("no geocoding results for address")

// GeocodingClient implements airquality.Geocoder against the Open-Meteo
// geocoding API. No API key required.
type GeocodingClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewGeocodingClient creates a client for baseURL, which defaults to the
// public Open-Meteo geocoding endpoint when empty.
func NewGeocodingClient(client *http.Client, baseURL string) *GeocodingClient {
	if baseURL == "" {
		baseURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	return &GeocodingClient{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: newBreaker("openmeteo-geocoding"),
	}
}

// Geocode resolves a free-text address to its best match. Only the top
// result is requested; anything beyond it would be discarded anyway.
func (c *GeocodingClient) Geocode(ctx context.Context, address string) (airquality.Location, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", address)
		values.Set("count", "1")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return airquality.Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return airquality.Location{}, fmt.Errorf("decoding geocoding response: %w", err)
	}

	if len(payload.Results) == 0 {
		return airquality.Location{}, fmt.Errorf("%w: %q", ErrNoResults, address)
	}

	top := payload.Results[0]
	return airquality.Location{
		Name:    top.Name,
		Country: top.Country,
		Lat:     top.Latitude,
		Lon:     top.Longitude,
	}, nil
}

// AirQualityClient implements airquality.MeasurementSource against the
// Open-Meteo air-quality API.
type AirQualityClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewAirQualityClient creates a client for baseURL, which defaults to the
// public Open-Meteo air-quality endpoint when empty.
func NewAirQualityClient(client *http.Client, baseURL string) *AirQualityClient {
	if baseURL == "" {
		baseURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	}
	return &AirQualityClient{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: newBreaker("openmeteo-airquality"),
	}
}

// FetchHourly requests the hourly pollutant window around now: pastDays back
// and forecastDays ahead. The raw body is kept alongside the decoded block
// so it can be persisted verbatim.
func (c *AirQualityClient) FetchHourly(ctx context.Context, loc airquality.Location, pastDays, forecastDays int) (airquality.Payload, error) {
	buildRequest := func() (*http.Request, error) {
		params := make([]string, 0, len(airquality.Parameters))
		for _, p := range airquality.Parameters {
			params = append(params, string(p))
		}

		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
		values.Set("hourly", strings.Join(params, ","))
		values.Set("past_days", strconv.Itoa(pastDays))
		values.Set("forecast_days", strconv.Itoa(forecastDays))
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return airquality.Payload{}, fmt.Errorf("air quality request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return airquality.Payload{}, fmt.Errorf("reading air quality response: %w", err)
	}

	payload, err := airquality.DecodePayload(raw)
	if err != nil {
		return airquality.Payload{}, fmt.Errorf("decoding air quality response: %w", err)
	}
	return payload, nil
}

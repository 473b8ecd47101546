package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/airmet/air-quality-monitor/internal/airquality"
	"github.com/airmet/air-quality-monitor/internal/airquality/providers"
	"github.com/airmet/air-quality-monitor/internal/store"
)

const geocodeBody = `{"results":[{"name":"Kraków","country":"Poland","latitude":50.06,"longitude":19.94}]}`

const airQualityBody = `{"hourly":{"time":["2025-04-20T00:00","2025-04-20T01:00"],"pm10":[10,30],"pm2_5":[5,7],"nitrogen_dioxide":null}}`

// newTestApp wires a Fiber app against stubbed Open-Meteo endpoints.
func newTestApp(t *testing.T, geocodeResp, airResp string) (*fiber.App, *airquality.Service) {
	t.Helper()

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geocodeResp))
	}))
	t.Cleanup(geoSrv.Close)

	airSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(airResp))
	}))
	t.Cleanup(airSrv.Close)

	geocoder := providers.NewGeocodingClient(geoSrv.Client(), geoSrv.URL)
	source := providers.NewAirQualityClient(airSrv.Client(), airSrv.URL)
	docs := store.NewFileStore(filepath.Join(t.TempDir(), "air_quality_data.json"))
	service := airquality.NewService(geocoder, source, docs, nil, 2, 3)

	app := fiber.New()
	RegisterRoutes(app, service)
	return app, service
}

func TestFetchRequiresAddress(t *testing.T) {
	app, _ := newTestApp(t, geocodeBody, airQualityBody)

	for _, target := range []string{"/api/v1/airquality", "/api/v1/airquality?address="} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestFetchUnknownAddressReturns404(t *testing.T) {
	app, _ := newTestApp(t, `{"generationtime_ms":0.2}`, airQualityBody)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/airquality?address=Nowhere", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestFetchReturnsViewWithStatistics(t *testing.T) {
	app, _ := newTestApp(t, geocodeBody, airQualityBody)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/airquality?address=Krakow%2C+PL", nil)
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var view airquality.View
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if view.Location.Name != "Kraków" {
		t.Errorf("location: got %q", view.Location.Name)
	}
	if s := view.Statistics["pm10"]; s.Min != 10 || s.Max != 30 || s.Avg != 20 {
		t.Errorf("pm10 stats: got %+v", s)
	}
	if len(view.Charts) != 2 {
		t.Errorf("expected 2 charts, got %d", len(view.Charts))
	}
}

func TestCurrentBeforeAnyFetch(t *testing.T) {
	app, _ := newTestApp(t, geocodeBody, airQualityBody)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/airquality/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	app, _ := newTestApp(t, geocodeBody, airQualityBody)

	for _, body := range []string{"", `{"location":"X"}`, "not json"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/airquality/load", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected status %d, got %d", body, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestLoadReplaysDocument(t *testing.T) {
	app, service := newTestApp(t, geocodeBody, airQualityBody)

	doc := `{"location":"Kraków","station":"Poland","air_quality_data":` + airQualityBody + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/airquality/load", strings.NewReader(doc))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	view, err := service.Current()
	if err != nil {
		t.Fatalf("Current after load: %v", err)
	}
	if !view.Offline {
		t.Error("loaded view must be marked offline")
	}
	if view.Location.Name != "Kraków" || view.Location.Country != "Poland" {
		t.Errorf("labels: got %+v", view.Location)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	app, _ := newTestApp(t, geocodeBody, airQualityBody)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Queries []airquality.QueryRecord `json:"queries"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(out.Queries) != 0 {
		t.Errorf("expected empty history, got %+v", out.Queries)
	}
}

package airquality

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
)

var (
	// ErrEmptyAddress is returned before any network call when the input
	// address is empty or whitespace.
	ErrEmptyAddress = errors.New("address must not be empty")

	// ErrNoData is returned when nothing has been fetched or loaded yet.
	ErrNoData = errors.New("no air quality data available")
)

// Service sequences the fetch pipeline: geocode, fetch measurements, compute
// statistics, build charts, persist. It also holds the currently displayed
// view; the view is replaced atomically so concurrent readers never observe
// a half-updated result.
type Service struct {
	geocoder Geocoder
	source   MeasurementSource
	docs     DocumentStore
	history  HistoryStore // optional

	pastDays     int
	forecastDays int

	mu      sync.RWMutex
	current *View
}

// NewService creates a Service. history may be nil when query history is
// disabled.
func NewService(geocoder Geocoder, source MeasurementSource, docs DocumentStore, history HistoryStore, pastDays, forecastDays int) *Service {
	return &Service{
		geocoder:     geocoder,
		source:       source,
		docs:         docs,
		history:      history,
		pastDays:     pastDays,
		forecastDays: forecastDays,
	}
}

// Fetch runs the full pipeline for a free-text address and returns the new
// view. An empty address fails validation before any request is issued; a
// geocode miss stops the pipeline before the measurement request.
func (s *Service) Fetch(ctx context.Context, address string) (*View, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	payload, err := s.source.FetchHourly(ctx, loc, s.pastDays, s.forecastDays)
	if err != nil {
		return nil, err
	}

	stats := ComputeStatistics(payload.Hourly)
	view := &View{
		Location:   loc,
		Statistics: stats,
		Charts:     BuildCharts(loc, payload.Hourly),
		FetchedAt:  time.Now().UTC(),
	}

	// Persistence failures must not lose the fetched result; the view is
	// still displayed and the error only logged.
	doc := Document{
		Location:   loc.Name,
		Station:    loc.Country,
		AirQuality: payload.Raw,
		Statistics: stats,
	}
	if err := s.docs.Save(doc); err != nil {
		log.Printf("failed to persist document for %q: %v", address, err)
	}

	if s.history != nil {
		rec := QueryRecord{
			Address:   address,
			Location:  loc.Name,
			Station:   loc.Country,
			Lat:       loc.Lat,
			Lon:       loc.Lon,
			FetchedAt: view.FetchedAt,
		}
		if err := s.history.RecordQuery(rec); err != nil {
			log.Printf("failed to record query %q: %v", address, err)
		}
	}

	s.setCurrent(view)
	return view, nil
}

// LoadDocument replays the display pipeline from a persisted document.
// Statistics and charts are rebuilt from the embedded payload, never trusted
// from the file. The document is not re-persisted and no network call is
// made. On any validation error the current view is left untouched.
func (s *Service) LoadDocument(data []byte) (*View, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	payload, err := DecodePayload(doc.AirQuality)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}

	loc := Location{Name: doc.Location, Country: doc.Station}
	view := &View{
		Location:   loc,
		Statistics: ComputeStatistics(payload.Hourly),
		Charts:     BuildCharts(loc, payload.Hourly),
		FetchedAt:  time.Now().UTC(),
		Offline:    true,
	}

	s.setCurrent(view)
	return view, nil
}

// RefreshLatest re-runs the pipeline for the most recently recorded query.
// It is a no-op when history is disabled or still empty.
func (s *Service) RefreshLatest(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	rec, err := s.history.LatestQuery()
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil
		}
		return err
	}
	_, err = s.Fetch(ctx, rec.Address)
	return err
}

// Current returns the currently displayed view, or ErrNoData before the
// first successful fetch or load.
func (s *Service) Current() (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoData
	}
	return s.current, nil
}

// History lists past successful queries, newest first.
func (s *Service) History(limit int) ([]QueryRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListQueries(limit)
}

func (s *Service) setCurrent(v *View) {
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
}

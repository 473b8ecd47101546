package airquality

import "context"

// Geocoder resolves a free-text address to a location. Implementations
// return ErrNoResults (wrapped) when the address matches nothing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

// MeasurementSource fetches the hourly air-quality window for a location.
type MeasurementSource interface {
	FetchHourly(ctx context.Context, loc Location, pastDays, forecastDays int) (Payload, error)
}

// DocumentStore persists the result document after each successful fetch.
type DocumentStore interface {
	Save(doc Document) error
}

// HistoryStore records successful queries so the UI can list them and the
// refresh scheduler can replay the most recent one. LatestQuery reports
// ErrNoData (wrapped) while the history is still empty.
type HistoryStore interface {
	RecordQuery(q QueryRecord) error
	ListQueries(limit int) ([]QueryRecord, error)
	LatestQuery() (QueryRecord, error)
}

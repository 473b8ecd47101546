package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/airmet/air-quality-monitor/internal/airquality"
)

func newTestHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	h, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteHistory failed: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHistoryRecordAndList(t *testing.T) {
	h := newTestHistory(t)

	now := time.Now().UTC().Truncate(time.Second)
	recs := []airquality.QueryRecord{
		{Address: "Krakow, PL", Location: "Kraków", Station: "Poland", Lat: 50.06, Lon: 19.94, FetchedAt: now.Add(-time.Hour)},
		{Address: "Berlin, DE", Location: "Berlin", Station: "Germany", Lat: 52.52, Lon: 13.41, FetchedAt: now},
	}
	for _, r := range recs {
		if err := h.RecordQuery(r); err != nil {
			t.Fatalf("RecordQuery failed: %v", err)
		}
	}

	list, err := h.ListQueries(10)
	if err != nil {
		t.Fatalf("ListQueries failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	// Newest first.
	if list[0].Address != "Berlin, DE" || list[1].Address != "Krakow, PL" {
		t.Errorf("order: got %q, %q", list[0].Address, list[1].Address)
	}
	if !list[0].FetchedAt.Equal(now) {
		t.Errorf("timestamp round trip: got %v, want %v", list[0].FetchedAt, now)
	}
}

func TestHistoryListLimit(t *testing.T) {
	h := newTestHistory(t)

	for i := 0; i < 5; i++ {
		if err := h.RecordQuery(airquality.QueryRecord{Address: "A", FetchedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := h.ListQueries(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 records, got %d", len(list))
	}
}

func TestHistoryLatest(t *testing.T) {
	h := newTestHistory(t)

	if _, err := h.LatestQuery(); !errors.Is(err, airquality.ErrNoData) {
		t.Fatalf("empty history: got %v, want ErrNoData", err)
	}

	if err := h.RecordQuery(airquality.QueryRecord{Address: "Krakow, PL", FetchedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := h.RecordQuery(airquality.QueryRecord{Address: "Berlin, DE", FetchedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	latest, err := h.LatestQuery()
	if err != nil {
		t.Fatalf("LatestQuery failed: %v", err)
	}
	if latest.Address != "Berlin, DE" {
		t.Errorf("latest: got %q", latest.Address)
	}
}

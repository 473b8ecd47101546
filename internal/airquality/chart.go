package airquality

import (
	"fmt"
	"time"
)

// Point is a single chart sample: epoch milliseconds on X, value on Y.
type Point struct {
	T int64   `json:"t"`
	V float64 `json:"v"`
}

// Chart describes one line series ready for rendering: metadata, axis titles
// and the time/value points. Null hours are omitted, which reads as a gap.
type Chart struct {
	Parameter Parameter `json:"parameter"`
	Title     string    `json:"title"`
	Label     string    `json:"label"`
	Unit      string    `json:"unit"`
	Color     string    `json:"color"`
	XTitle    string    `json:"xTitle"`
	YTitle    string    `json:"yTitle"`
	Points    []Point   `json:"points"`
}

// BuildCharts produces one chart per parameter that has at least one
// plottable value. The previous chart list is always discarded wholesale by
// callers, so charts carry no identity across queries.
func BuildCharts(loc Location, h HourlyBlock) []Chart {
	charts := make([]Chart, 0, len(Parameters))

	for _, p := range Parameters {
		values := h.Series(p)
		if len(values) == 0 {
			continue
		}

		points := make([]Point, 0, len(values))
		for i, v := range values {
			if v == nil || i >= len(h.Time) {
				continue
			}
			ts, err := parseHourlyTime(h.Time[i])
			if err != nil {
				continue
			}
			points = append(points, Point{T: ts.UnixMilli(), V: *v})
		}
		if len(points) == 0 {
			continue
		}

		info := p.Info()
		axisLabel := fmt.Sprintf("%s [%s]", info.Label, info.Unit)
		charts = append(charts, Chart{
			Parameter: p,
			Title:     fmt.Sprintf("%s - %s", axisLabel, loc.Name),
			Label:     info.Label,
			Unit:      info.Unit,
			Color:     info.Color,
			XTitle:    "Time",
			YTitle:    axisLabel,
			Points:    points,
		})
	}

	return charts
}

// parseHourlyTime accepts the provider's minute-precision ISO-8601 form and
// falls back to RFC3339 for documents written by other tooling.
func parseHourlyTime(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

package airquality

import (
	"encoding/json"
	"time"
)

// Parameter identifies one measured pollutant series in the hourly payload.
type Parameter string

const (
	ParamPM10 Parameter = "pm10"
	ParamPM25 Parameter = "pm2_5"
	ParamNO2  Parameter = "nitrogen_dioxide"
)

// Parameters lists the pollutants we request and display, in display order.
var Parameters = []Parameter{ParamPM10, ParamPM25, ParamNO2}

// ParameterInfo carries display metadata for a pollutant.
type ParameterInfo struct {
	Label string
	Unit  string
	Color string
}

var parameterInfo = map[Parameter]ParameterInfo{
	ParamPM10: {Label: "PM10", Unit: "µg/m³", Color: "#ff0000"},
	ParamPM25: {Label: "PM2.5", Unit: "µg/m³", Color: "#0000ff"},
	ParamNO2:  {Label: "NO₂", Unit: "µg/m³", Color: "#008000"},
}

// Info returns display metadata for p. Unknown parameters get a bare label.
func (p Parameter) Info() ParameterInfo {
	if info, ok := parameterInfo[p]; ok {
		return info
	}
	return ParameterInfo{Label: string(p)}
}

// Location is a geocoded place. Name and Country come from the geocoding
// result; Country doubles as the measuring-station label in documents.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
}

// HourlyBlock is the decoded "hourly" object of an air-quality payload.
// Timestamps are the provider's ISO-8601 strings; a nil entry in a value
// slice means the measurement is absent for that hour. A series may be null
// (nil slice) when the provider has no data for a parameter at all.
type HourlyBlock struct {
	Time []string   `json:"time"`
	PM10 []*float64 `json:"pm10"`
	PM25 []*float64 `json:"pm2_5"`
	NO2  []*float64 `json:"nitrogen_dioxide"`
}

// Series returns the value slice for a parameter, nil if the parameter is
// not part of the block.
func (h HourlyBlock) Series(p Parameter) []*float64 {
	switch p {
	case ParamPM10:
		return h.PM10
	case ParamPM25:
		return h.PM25
	case ParamNO2:
		return h.NO2
	}
	return nil
}

// Payload bundles the raw provider response with its decoded hourly block.
// Raw is persisted verbatim so saved documents stay byte-compatible with
// what the provider returned.
type Payload struct {
	Raw    json.RawMessage
	Hourly HourlyBlock
}

// DecodePayload parses a raw air-quality response body.
func DecodePayload(raw []byte) (Payload, error) {
	var body struct {
		Hourly HourlyBlock `json:"hourly"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Payload{}, err
	}
	return Payload{Raw: json.RawMessage(raw), Hourly: body.Hourly}, nil
}

// Stats holds the derived summary for one pollutant series.
type Stats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Document is the persisted file format: the location label, the station
// label, the raw provider payload and the statistics derived from it.
type Document struct {
	Location   string           `json:"location"`
	Station    string           `json:"station"`
	AirQuality json.RawMessage  `json:"air_quality_data"`
	Statistics map[string]Stats `json:"statistics,omitempty"`
}

// View is the currently displayed result: location labels, per-parameter
// statistics and the chart list, rebuilt in full on every fetch or load.
type View struct {
	Location   Location         `json:"location"`
	Statistics map[string]Stats `json:"statistics"`
	Charts     []Chart          `json:"charts"`
	FetchedAt  time.Time        `json:"fetchedAt"`
	// Offline is true when the view came from a loaded document rather
	// than a live fetch.
	Offline bool `json:"offline"`
}

// QueryRecord is one successful fetch remembered in the history store.
type QueryRecord struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	Location  string    `json:"location"`
	Station   string    `json:"station"`
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	FetchedAt time.Time `json:"fetchedAt"`
}

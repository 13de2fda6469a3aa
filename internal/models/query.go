package models

import (
	"encoding/json"
	"math"
)

// DataRecord is one monthly observation for a region.
type DataRecord struct {
	Period    string  `json:"period"`
	Revenue   float64 `json:"revenue"`
	Customers int     `json:"customers"`
	Region    string  `json:"region"`
}

// AggregatedPoint is one row of a derived chart series. Depending on the
// routine Revenue and Customers hold raw totals, ratios or percentages.
type AggregatedPoint struct {
	Label     string  `json:"label"`
	Revenue   float64 `json:"revenue"`
	Customers float64 `json:"customers"`
	Region    string  `json:"region"`
}

// MarshalJSON writes non-finite values (a ratio over zero customers, growth
// from a zero baseline) as null; the point itself keeps them.
func (p AggregatedPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label     string   `json:"label"`
		Revenue   *float64 `json:"revenue"`
		Customers *float64 `json:"customers"`
		Region    string   `json:"region"`
	}{
		Label:     p.Label,
		Revenue:   finite(p.Revenue),
		Customers: finite(p.Customers),
		Region:    p.Region,
	})
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

type TableView struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
	ChartArea ChartKind = "area"
)

// QueryResponse is the engine's only output. A successful analysis sets
// Series, Table and Chart; a fallback sets Error and leaves them empty.
type QueryResponse struct {
	Answer string            `json:"answer"`
	Series []AggregatedPoint `json:"chart_data,omitempty"`
	Table  *TableView        `json:"table_data,omitempty"`
	Chart  ChartKind         `json:"chart_type,omitempty"`
	Error  string            `json:"error,omitempty"`
	Route  string            `json:"route"`
}

func (r QueryResponse) Failed() bool {
	return r.Error != ""
}

// HasChart reports whether both a series and a chart kind are present.
func (r QueryResponse) HasChart() bool {
	return len(r.Series) > 0 && r.Chart != ""
}

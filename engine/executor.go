package engine

import "fmt"

// ============================================================================
// EXECUTOR — Dispatches a Query to the matching builder
// ============================================================================
// Entry point: Execute(query, table, opts...)
//
// Outer layers (HTTP handlers, CLI) describe what they want as a Query and
// get back a Result with exactly one payload populated. Selection values
// are expected to be validated by the caller; Execute only rejects an
// unknown kind or an inverted payload range.
// ============================================================================

// Query kinds.
const (
	KindProportion = "proportion"
	KindScatter    = "scatter"
	KindTable      = "table"
	KindText       = "text"
)

// Query names one dashboard computation.
type Query struct {
	Kind    string       `json:"kind" yaml:"kind"`
	Site    string       `json:"site,omitempty" yaml:"site,omitempty"`
	Payload PayloadRange `json:"payload" yaml:"payload"`
}

// Result is the render-ready output of Execute.
type Result struct {
	Type  string     `json:"type" yaml:"type"`
	Chart *ChartSpec `json:"chart,omitempty" yaml:"chart,omitempty"`
	Table *TableData `json:"table,omitempty" yaml:"table,omitempty"`
	Text  *TextData  `json:"text,omitempty" yaml:"text,omitempty"`
}

// Execute runs a Query against the table.
func Execute(q Query, t *LaunchTable, opts ...Option) (*Result, error) {
	site := q.Site
	if site == "" {
		site = AllSites
	}

	switch q.Kind {
	case KindProportion:
		spec := BuildProportionChart(site, t, opts...)
		return &Result{Type: "chart", Chart: &spec}, nil

	case KindScatter:
		if !q.Payload.Valid() {
			return nil, fmt.Errorf("payload range [%g, %g]: low exceeds high", q.Payload.Low, q.Payload.High)
		}
		spec := BuildScatterChart(site, q.Payload, t, opts...)
		return &Result{Type: "chart", Chart: &spec}, nil

	case KindTable:
		return &Result{Type: "table", Table: BuildSiteTable(FilterBySite(t, site), opts...)}, nil

	case KindText:
		return &Result{Type: "text", Text: BuildText(FilterBySite(t, site))}, nil

	default:
		return nil, fmt.Errorf("unknown query kind %q", q.Kind)
	}
}

package engine

// ============================================================================
// LAUNCHDASH ENGINE TYPES
// ============================================================================
// Launch records, payload ranges, aggregate shares and render-ready chart
// specs. The engine has no I/O and no logging: every function here is a
// pure computation over an immutable LaunchTable.
// ============================================================================

// AllSites is the selector value meaning "do not filter by launch site".
const AllSites = "ALL"

// Dimension keys exposed through RecordView.
const (
	DimLaunchSite             = "launch_site"
	DimBoosterVersion         = "booster_version"
	DimBoosterVersionCategory = "booster_version_category"
)

// Measure keys exposed through RecordView.
const (
	MeasurePayloadMassKg = "payload_mass_kg"
	MeasureClass         = "class"
	MeasureFlightNumber  = "flight_number"
)

// Outcome classes.
const (
	ClassFailure = 0
	ClassSuccess = 1
)

// ============================================================================
// RECORD
// ============================================================================

// LaunchRecord is one row of the launch dataset.
type LaunchRecord struct {
	FlightNumber           int     `json:"flightNumber,omitempty" yaml:"flightNumber,omitempty"`
	LaunchSite             string  `json:"launchSite" yaml:"launchSite"`
	PayloadMassKg          float64 `json:"payloadMassKg" yaml:"payloadMassKg"`
	Class                  int     `json:"class" yaml:"class"` // 1 = success, 0 = failure
	BoosterVersion         string  `json:"boosterVersion,omitempty" yaml:"boosterVersion,omitempty"`
	BoosterVersionCategory string  `json:"boosterVersionCategory" yaml:"boosterVersionCategory"`
}

// Succeeded reports whether the launch outcome was a success.
func (r LaunchRecord) Succeeded() bool { return r.Class == ClassSuccess }

// PayloadRange is a closed payload interval in kg.
type PayloadRange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether low <= kg <= high.
func (r PayloadRange) Contains(kg float64) bool {
	return r.Low <= kg && kg <= r.High
}

// Valid reports whether Low <= High.
func (r PayloadRange) Valid() bool { return r.Low <= r.High }

// ============================================================================
// GROUP / SHARE — Intermediate computation results
// ============================================================================

// Group is a grouped subset of a view with its aggregate value.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // zero-copy sub-view over the group's rows
}

// Share is one entry of an ordered key → fraction mapping.
type Share struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// SharesToMap flattens ordered shares into a plain map.
func SharesToMap(shares []Share) map[string]float64 {
	m := make(map[string]float64, len(shares))
	for _, s := range shares {
		m[s.Key] = s.Value
	}
	return m
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types produced by the builders.
const (
	ChartPie     = "pie"
	ChartScatter = "scatter"
)

// ChartSpec is a render-ready chart description, independent of any
// rendering technology.
type ChartSpec struct {
	ChartType  string        `json:"chartType" yaml:"chartType"`
	Title      string        `json:"title" yaml:"title"`
	XAxis      string        `json:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series" yaml:"series"`
	Colors     []string      `json:"colors,omitempty" yaml:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend" yaml:"showLegend"`
	ShowGrid   bool          `json:"showGrid" yaml:"showGrid"`

	// Empty marks a placeholder chart: nothing matched the selection.
	Empty   bool   `json:"empty,omitempty" yaml:"empty,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// ChartSeries is a named, coloured data series.
type ChartSeries struct {
	Name  string       `json:"name" yaml:"name"`
	Data  []ChartPoint `json:"data" yaml:"data"`
	Color string       `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartPoint is a single data point. Pie slices use Label/Value, scatter
// points use X/Y with Label naming the point.
type ChartPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
}

// PointCount returns the number of points across all series.
func (c ChartSpec) PointCount() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Data)
	}
	return n
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a summary table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a one-paragraph description of a dataset.
type TextData struct {
	Reply     string       `json:"reply"`
	Launches  int          `json:"launches"`
	Successes int          `json:"successes"`
	Rate      float64      `json:"rate"`
	Sites     []string     `json:"sites"`
	Payload   PayloadRange `json:"payload"`
}

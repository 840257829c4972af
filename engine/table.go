package engine

import "math"

// ============================================================================
// LAUNCH TABLE — the immutable dataset
// ============================================================================
// A LaunchTable is built once by the loader and never mutated. Filters
// return subsets that share the backing records and only hold row
// positions, so every chart recompute is allocation-light and safe to run
// from any number of sessions at once.
// ============================================================================

var launchFields = NewDomainAdapter[LaunchRecord]().
	Dimension(DimLaunchSite, func(r LaunchRecord) string { return r.LaunchSite }).
	Dimension(DimBoosterVersion, func(r LaunchRecord) string { return r.BoosterVersion }).
	Dimension(DimBoosterVersionCategory, func(r LaunchRecord) string { return r.BoosterVersionCategory }).
	Measure(MeasurePayloadMassKg, func(r LaunchRecord) float64 { return r.PayloadMassKg }).
	Measure(MeasureClass, func(r LaunchRecord) float64 { return float64(r.Class) }).
	Measure(MeasureFlightNumber, func(r LaunchRecord) float64 { return float64(r.FlightNumber) })

// LaunchTable is an ordered, read-only sequence of launch records.
type LaunchTable struct {
	records []LaunchRecord
	rows    []int // positions into records; nil = all records in order
}

// NewLaunchTable copies records into a new immutable table.
func NewLaunchTable(records []LaunchRecord) *LaunchTable {
	owned := make([]LaunchRecord, len(records))
	copy(owned, records)
	return &LaunchTable{records: owned}
}

// Len returns the number of rows. A nil table is empty.
func (t *LaunchTable) Len() int {
	if t == nil {
		return 0
	}
	if t.rows == nil {
		return len(t.records)
	}
	return len(t.rows)
}

// At returns the i-th row of the table.
func (t *LaunchTable) At(i int) LaunchRecord {
	if t.rows == nil {
		return t.records[i]
	}
	return t.records[t.rows[i]]
}

// Records returns a copy of the table rows in order.
func (t *LaunchTable) Records() []LaunchRecord {
	out := make([]LaunchRecord, t.Len())
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

func (t *LaunchTable) Dimension(i int, key string) string {
	if i < 0 || i >= t.Len() {
		return ""
	}
	return launchFields.DimensionOf(t.At(i), key)
}

func (t *LaunchTable) Measure(i int, key string) float64 {
	if i < 0 || i >= t.Len() {
		return 0
	}
	return launchFields.MeasureOf(t.At(i), key)
}

func (t *LaunchTable) DimensionKeys() []string { return launchFields.DimensionKeys() }
func (t *LaunchTable) MeasureKeys() []string   { return launchFields.MeasureKeys() }

// where returns the subset of rows for which keep is true, in table order.
func (t *LaunchTable) where(keep func(LaunchRecord) bool) *LaunchTable {
	n := t.Len()
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pos := i
		if t.rows != nil {
			pos = t.rows[i]
		}
		if keep(t.records[pos]) {
			rows = append(rows, pos)
		}
	}
	var records []LaunchRecord
	if t != nil {
		records = t.records
	}
	return &LaunchTable{records: records, rows: rows}
}

// ============================================================================
// PAYLOAD BOUNDS
// ============================================================================

// PayloadBounds returns [min, max] of payload_mass_kg over a view.
// An empty view yields the zero range.
func PayloadBounds(view RecordView) PayloadRange {
	n := view.Len()
	if n == 0 {
		return PayloadRange{}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := view.Measure(i, MeasurePayloadMassKg)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return PayloadRange{Low: lo, High: hi}
}

package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Aggregators read data through this interface and never own it.
//
// Implementations:
//   LaunchTable    the loaded dataset and its filtered subsets
//   SubView        grouped subset (indices into parent, zero-copy)
//
// Field access for typed records goes through a DomainAdapter registered
// once at init; the engine reads it in tight loops.
// ============================================================================

// RecordView provides indexed access to a dataset.
// Aggregators call Dimension/Measure in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// ============================================================================
// SUB VIEW — grouped subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — typed struct field access by key
// ============================================================================
//
// Usage:
//
//	fields := engine.NewDomainAdapter[LaunchRecord]().
//	    Dimension("launch_site", func(r LaunchRecord) string { return r.LaunchSite }).
//	    Measure("class", func(r LaunchRecord) float64 { return float64(r.Class) })
//
// ============================================================================

// DomainAdapter maps dimension/measure keys onto accessor functions of T.
// Declare once, read many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// DimensionOf reads a dimension of v, or "" for an unknown key.
func (a *DomainAdapter[T]) DimensionOf(v T, key string) string {
	if fn, ok := a.dims[key]; ok {
		return fn(v)
	}
	return ""
}

// MeasureOf reads a measure of v, or 0 for an unknown key.
func (a *DomainAdapter[T]) MeasureOf(v T, key string) float64 {
	if fn, ok := a.meas[key]; ok {
		return fn(v)
	}
	return 0
}

// DimensionKeys returns registered dimension keys in registration order.
func (a *DomainAdapter[T]) DimensionKeys() []string { return a.dimOrder }

// MeasureKeys returns registered measure keys in registration order.
func (a *DomainAdapter[T]) MeasureKeys() []string { return a.mesOrder }

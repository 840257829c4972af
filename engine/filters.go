package engine

// ============================================================================
// FILTERS — Site and payload-range selection over a LaunchTable
// ============================================================================
// Single-pass filters returning a subset that shares the parent's records.
// Filters compose: FilterByRange(FilterBySite(t, s), lo, hi) is the scatter
// chart's point set.
// ============================================================================

// FilterBySite returns the rows whose launch site equals site exactly.
// AllSites returns t itself.
func FilterBySite(t *LaunchTable, site string) *LaunchTable {
	if site == AllSites {
		return t
	}
	return t.where(func(r LaunchRecord) bool { return r.LaunchSite == site })
}

// FilterByRange returns the rows with low <= payload <= high.
func FilterByRange(t *LaunchTable, low, high float64) *LaunchTable {
	r := PayloadRange{Low: low, High: high}
	return t.where(func(rec LaunchRecord) bool { return r.Contains(rec.PayloadMassKg) })
}

// FilterSelection applies the site filter and then the payload filter.
func FilterSelection(t *LaunchTable, site string, r PayloadRange) *LaunchTable {
	return FilterByRange(FilterBySite(t, site), r.Low, r.High)
}

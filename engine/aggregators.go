package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view) and keeps the
// first distinct appearance order of the group keys.
// ============================================================================

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort.
func GroupAndAggregate(view RecordView, dimension, measure, aggregation, sortBy string) []Group {
	if view.Len() == 0 {
		return nil
	}

	groups := groupBySingle(view, dimension)
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
	}
	SortGroups(groups, sortBy)
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure, aggregation string) {
	switch aggregation {
	case "count":
		group.Value = float64(group.View.Len())
	case "avg":
		group.Value = AvgMeasure(group.View, measure)
	case "max":
		group.Value = MaxMeasure(group.View, measure)
	case "min":
		group.Value = MinMeasure(group.View, measure)
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v > m {
			m = v
		}
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v < m {
			m = v
		}
	}
	return m
}

// ============================================================================
// LAUNCH AGGREGATES
// ============================================================================

// SuccessRateBySite returns, for each distinct launch site, the mean outcome
// class of its launches. Order follows WithSiteOrder (first-seen by default).
func SuccessRateBySite(t *LaunchTable, opts ...Option) []Share {
	cfg := applyOptions(opts)

	sortBy := ""
	switch cfg.SiteOrder {
	case OrderAlpha:
		sortBy = OrderAlpha
	case OrderRate:
		sortBy = sortValueDesc
	}
	groups := GroupAndAggregate(t, DimLaunchSite, MeasureClass, "avg", sortBy)

	shares := make([]Share, 0, len(groups))
	for _, g := range groups {
		shares = append(shares, Share{Key: g.Key, Value: g.Value, Count: g.Count})
	}
	return shares
}

// OutcomeProportions returns the fraction of failed (key 0) and successful
// (key 1) launches at site. Both keys are always present and sum to 1.
func OutcomeProportions(t *LaunchTable, site string) (map[int]float64, error) {
	subset := FilterBySite(t, site)
	n := subset.Len()
	if n == 0 {
		return nil, fmt.Errorf("outcome proportions for %q: %w", site, ErrEmptySelection)
	}

	successes := 0
	for i := 0; i < n; i++ {
		if subset.At(i).Succeeded() {
			successes++
		}
	}
	rate := float64(successes) / float64(n)
	return map[int]float64{
		ClassSuccess: rate,
		ClassFailure: float64(n-successes) / float64(n),
	}, nil
}

// siteAggregate aggregates a measure per launch site, keyed by site.
func siteAggregate(view RecordView, measure, aggregation string) map[string]float64 {
	out := make(map[string]float64)
	for _, g := range GroupAndAggregate(view, DimLaunchSite, measure, aggregation, "") {
		out[g.Key] = g.Value
	}
	return out
}

// Sites returns the distinct launch sites of a view in first-seen order.
func Sites(view RecordView) []string {
	return UniqueValues(view, DimLaunchSite)
}

// ============================================================================
// SORTING
// ============================================================================

const sortValueDesc = "value_desc"

// SortGroups sorts aggregate groups by the specified sort mode. Ties keep
// their grouping order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case sortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case OrderAlpha:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	default:
		// preserve grouping order
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatPercent formats a fraction as a percentage with one decimal.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// UniqueValues returns distinct non-empty values for a dimension across a view.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// LabelForDimension returns a human-readable label for a dimension key.
func LabelForDimension(dimension string) string {
	words := strings.Split(dimension, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

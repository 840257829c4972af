package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// CHART BUILDER — Produces ChartSpec for the two dashboard charts
// ============================================================================
// Both builders are pure: the same arguments always yield an equal spec.
// An empty selection produces a placeholder spec (Empty=true), never an
// error, so a display can always replace the previous chart.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Axis labels carried over from the dataset headers.
const (
	AxisPayload = "Payload Mass (kg)"
	AxisClass   = "class"
)

// Outcome slice labels.
const (
	LabelSuccess = "Success"
	LabelFailure = "Failure"
)

// ProportionChartTitle returns the pie chart title for a site selection.
func ProportionChartTitle(site string) string {
	if site == AllSites {
		return "Total Launches for All Sites"
	}
	return fmt.Sprintf("Total Launch for a %s", site)
}

// ScatterChartTitle returns the scatter chart title for a site selection.
func ScatterChartTitle(site string) string {
	if site == AllSites {
		return "Correlation between Payload (kg) and Success for All Sites"
	}
	return fmt.Sprintf("Correlation between Payload (kg) and Success for %s", site)
}

// BuildProportionChart builds the pie chart for a site selection.
//
// For AllSites there is one slice per site valued at that site's success
// rate. For a single site there are two slices, Success and Failure,
// valued at their share of the site's launches.
func BuildProportionChart(site string, t *LaunchTable, opts ...Option) ChartSpec {
	cfg := applyOptions(opts)

	spec := ChartSpec{
		ChartType:  ChartPie,
		Title:      ProportionChartTitle(site),
		ShowLegend: true,
		ShowGrid:   false,
	}

	var points []ChartPoint
	if site == AllSites {
		shares := SuccessRateBySite(t, opts...)
		if len(shares) == 0 {
			return emptyChart(spec, "No launches loaded.")
		}
		points = make([]ChartPoint, 0, len(shares))
		for _, s := range shares {
			points = append(points, ChartPoint{Label: s.Key, Value: s.Value})
		}
	} else {
		props, err := OutcomeProportions(t, site)
		if errors.Is(err, ErrEmptySelection) {
			return emptyChart(spec, fmt.Sprintf("No launches recorded for %s.", site))
		}
		points = []ChartPoint{
			{Label: LabelSuccess, Value: props[ClassSuccess]},
			{Label: LabelFailure, Value: props[ClassFailure]},
		}
	}

	spec.Series = []ChartSeries{{Name: spec.Title, Data: points}}
	spec.Colors = assignColors(cfg.Palette, len(points))
	return spec
}

// BuildScatterChart builds the payload-vs-outcome scatter chart.
//
// The table is restricted by FilterBySite and then FilterByRange (both
// bounds inclusive). Points are grouped into one series per booster
// version category, in first-seen order.
func BuildScatterChart(site string, r PayloadRange, t *LaunchTable, opts ...Option) ChartSpec {
	cfg := applyOptions(opts)

	spec := ChartSpec{
		ChartType:  ChartScatter,
		Title:      ScatterChartTitle(site),
		XAxis:      AxisPayload,
		YAxis:      AxisClass,
		ShowLegend: true,
		ShowGrid:   true,
	}

	subset := FilterSelection(t, site, r)
	if subset.Len() == 0 {
		return emptyChart(spec, "No launches match the selected site and payload range.")
	}

	groups := groupBySingle(subset, DimBoosterVersionCategory)
	spec.Series = make([]ChartSeries, 0, len(groups))
	for i, g := range groups {
		points := make([]ChartPoint, 0, g.View.Len())
		for j := 0; j < g.View.Len(); j++ {
			label := g.View.Dimension(j, DimBoosterVersion)
			if label == "" {
				label = g.Key
			}
			points = append(points, ChartPoint{
				Label: label,
				X:     g.View.Measure(j, MeasurePayloadMassKg),
				Y:     g.View.Measure(j, MeasureClass),
			})
		}
		spec.Series = append(spec.Series, ChartSeries{
			Name:  g.Key,
			Data:  points,
			Color: cfg.Palette[i%len(cfg.Palette)],
		})
	}

	spec.Colors = assignColors(cfg.Palette, len(spec.Series))
	return spec
}

// ============================================================================
// HELPERS
// ============================================================================

func emptyChart(spec ChartSpec, message string) ChartSpec {
	spec.Empty = true
	spec.Message = message
	spec.Series = []ChartSeries{}
	spec.ShowLegend = false
	return spec
}

func assignColors(palette []string, count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

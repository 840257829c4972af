package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Per-site launch summary
// ============================================================================
// One row per launch site: launches, successes, success rate and the
// payload span. Rows follow the same site order as the pie chart.
// ============================================================================

// BuildSiteTable summarises a table per launch site.
func BuildSiteTable(t *LaunchTable, opts ...Option) *TableData {
	columns := []Column{
		{Key: DimLaunchSite, Label: LabelForDimension(DimLaunchSite), Type: "text", Align: "left"},
		{Key: "launches", Label: "Launches", Type: "number", Align: "right"},
		{Key: "successes", Label: "Successes", Type: "number", Align: "right"},
		{Key: "success_rate", Label: "Success Rate", Type: "percent", Align: "right"},
		{Key: "payload_min", Label: "Min Payload (kg)", Type: "number", Align: "right"},
		{Key: "payload_max", Label: "Max Payload (kg)", Type: "number", Align: "right"},
	}

	table := &TableData{
		Title:   "Launches by Site",
		Columns: columns,
		Rows:    [][]string{},
	}
	if t.Len() == 0 {
		return table
	}

	successes := siteAggregate(t, MeasureClass, "sum")
	lows := siteAggregate(t, MeasurePayloadMassKg, "min")
	highs := siteAggregate(t, MeasurePayloadMassKg, "max")
	for _, share := range SuccessRateBySite(t, opts...) {
		table.Rows = append(table.Rows, []string{
			share.Key,
			strconv.Itoa(share.Count),
			strconv.Itoa(int(successes[share.Key])),
			FormatPercent(share.Value),
			fmtKg(lows[share.Key]),
			fmtKg(highs[share.Key]),
		})
	}

	total := SumMeasure(t, MeasureClass)
	table.Summary = &Summary{
		Label: fmt.Sprintf("Total (%d launches)", t.Len()),
		Values: map[string]string{
			"launches":     strconv.Itoa(t.Len()),
			"successes":    strconv.Itoa(int(total)),
			"success_rate": FormatPercent(total / float64(t.Len())),
		},
	}
	return table
}

func fmtKg(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

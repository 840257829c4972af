package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — One-paragraph dataset description
// ============================================================================

// BuildText describes a table: launch count, overall success rate, sites
// and payload span.
func BuildText(t *LaunchTable) *TextData {
	n := t.Len()
	if n == 0 {
		return &TextData{
			Reply: "No launches loaded.",
			Sites: []string{},
		}
	}

	successes := int(SumMeasure(t, MeasureClass))
	sites := Sites(t)
	bounds := PayloadBounds(t)
	rate := float64(successes) / float64(n)

	reply := fmt.Sprintf("%d launches from %d sites (%s), %d successful (%s). Payloads range from %s to %s kg.",
		n, len(sites), strings.Join(sites, ", "), successes, FormatPercent(rate), fmtKg(bounds.Low), fmtKg(bounds.High))

	return &TextData{
		Reply:     reply,
		Launches:  n,
		Successes: successes,
		Rate:      rate,
		Sites:     sites,
		Payload:   bounds,
	}
}

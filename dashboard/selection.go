package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/spektr-org/launchdash/engine"
)

// Selection is the current value of both controls.
type Selection struct {
	Site    string              `json:"site"`
	Payload engine.PayloadRange `json:"payload"`
}

// InvalidSelectionError reports a control value outside the offered options.
// It is a user-input error: the controller keeps its previous selection.
type InvalidSelectionError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ============================================================================
// CONTROL OPTIONS
// ============================================================================

// AllSitesLabel is the selector label for engine.AllSites.
const AllSitesLabel = "All Sites"

// SiteOption is one entry of the site selector.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Mark is a labelled tick of the range slider.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Slider bounds the payload range control.
type Slider struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Marks []Mark  `json:"marks"`
}

// Check validates a payload range against the slider.
func (s Slider) Check(r engine.PayloadRange) error {
	value := fmt.Sprintf("[%g, %g]", r.Low, r.High)
	switch {
	case math.IsNaN(r.Low) || math.IsNaN(r.High):
		return &InvalidSelectionError{Field: "payload range", Value: value, Reason: "bounds must be numbers"}
	case !r.Valid():
		return &InvalidSelectionError{Field: "payload range", Value: value, Reason: "low bound exceeds high bound"}
	case r.Low < s.Min || r.High > s.Max:
		return &InvalidSelectionError{Field: "payload range", Value: value,
			Reason: fmt.Sprintf("outside slider bounds [%g, %g]", s.Min, s.Max)}
	}
	return nil
}

// Options are the enumerated control options offered to the UI.
type Options struct {
	Sites       []SiteOption `json:"sites"`
	Placeholder string       `json:"placeholder"`
	Slider      Slider       `json:"slider"`
	Default     Selection    `json:"default"`
}

// HasSite reports whether site is one of the selector values.
func (o *Options) HasSite(site string) bool {
	for _, s := range o.Sites {
		if s.Value == site {
			return true
		}
	}
	return false
}

// Check validates a complete selection: the site must be offered and the
// payload range must fit the slider.
func (o *Options) Check(sel Selection) error {
	if !o.HasSite(sel.Site) {
		return errUnknownSite(sel.Site)
	}
	return o.Slider.Check(sel.Payload)
}

func errUnknownSite(site string) error {
	return &InvalidSelectionError{Field: "site", Value: site, Reason: "not one of the offered launch sites"}
}

// NewOptions builds the control options for a loaded table.
//
// The selector offers All Sites, then the configured sites, then any
// site present in the data but not configured. The slider keeps its
// configured bounds and is widened, in whole steps, to cover the observed
// payloads. The default selection is all sites over [min, max] payload.
func NewOptions(t *engine.LaunchTable, sites []string, slider Slider) Options {
	opts := Options{
		Sites:       []SiteOption{{Label: AllSitesLabel, Value: engine.AllSites}},
		Placeholder: "Select a Launch Site here",
	}

	seen := map[string]bool{engine.AllSites: true}
	add := func(site string) {
		if site == "" || seen[site] {
			return
		}
		seen[site] = true
		opts.Sites = append(opts.Sites, SiteOption{Label: site, Value: site})
	}
	for _, s := range sites {
		add(s)
	}
	for _, s := range engine.Sites(t) {
		add(s)
	}

	bounds := engine.PayloadBounds(t)
	if slider.Step <= 0 {
		slider.Step = 1000
	}
	if lo := math.Floor(bounds.Low/slider.Step) * slider.Step; lo < slider.Min {
		slider.Min = lo
	}
	if hi := math.Ceil(bounds.High/slider.Step) * slider.Step; hi > slider.Max {
		slider.Max = hi
	}
	slider.Marks = nil
	for v := slider.Min; v <= slider.Max; v += slider.Step {
		slider.Marks = append(slider.Marks, Mark{Value: v, Label: humanize.Ftoa(v)})
	}
	opts.Slider = slider

	opts.Default = Selection{Site: engine.AllSites, Payload: bounds}
	return opts
}

package dashboard

import (
	"fmt"

	"github.com/spektr-org/launchdash/engine"
)

// EventKind identifies which control changed.
type EventKind string

const (
	KindSite  EventKind = "site"
	KindRange EventKind = "range"
)

// Event is a typed control-change event.
type Event interface {
	Kind() EventKind
	// apply validates the event against the control options and returns
	// the selection it leads to.
	apply(cur Selection, opts *Options) (Selection, error)
}

// SiteChanged is emitted by the site selector.
type SiteChanged struct {
	Site string `json:"site"`
}

func (SiteChanged) Kind() EventKind { return KindSite }

func (e SiteChanged) apply(cur Selection, opts *Options) (Selection, error) {
	if !opts.HasSite(e.Site) {
		return cur, errUnknownSite(e.Site)
	}
	cur.Site = e.Site
	return cur, nil
}

func (e SiteChanged) String() string { return fmt.Sprintf("site=%q", e.Site) }

// RangeChanged is emitted by the payload range selector.
type RangeChanged struct {
	Range engine.PayloadRange `json:"range"`
}

func (RangeChanged) Kind() EventKind { return KindRange }

func (e RangeChanged) apply(cur Selection, opts *Options) (Selection, error) {
	if err := opts.Slider.Check(e.Range); err != nil {
		return cur, err
	}
	cur.Payload = e.Range
	return cur, nil
}

func (e RangeChanged) String() string {
	return fmt.Sprintf("payload=[%g, %g]", e.Range.Low, e.Range.High)
}

package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spektr-org/launchdash/engine"
)

// ============================================================================
// FIXTURES
// ============================================================================

func launchTable() *engine.LaunchTable {
	return engine.NewLaunchTable([]engine.LaunchRecord{
		{FlightNumber: 1, LaunchSite: "CCAFS LC-40", PayloadMassKg: 500, Class: 0, BoosterVersionCategory: "v1.0"},
		{FlightNumber: 2, LaunchSite: "CCAFS LC-40", PayloadMassKg: 2500, Class: 1, BoosterVersionCategory: "FT"},
		{FlightNumber: 3, LaunchSite: "KSC LC-39A", PayloadMassKg: 5000, Class: 1, BoosterVersionCategory: "FT"},
	})
}

type shown struct {
	Chart ChartID
	Spec  engine.ChartSpec
}

type recorder struct {
	shows []shown
	err   error
}

func (r *recorder) Show(_ context.Context, chart ChartID, spec engine.ChartSpec) error {
	r.shows = append(r.shows, shown{Chart: chart, Spec: spec})
	return r.err
}

func (r *recorder) charts() []ChartID {
	ids := make([]ChartID, 0, len(r.shows))
	for _, s := range r.shows {
		ids = append(ids, s.Chart)
	}
	return ids
}

func newTestController(t *testing.T, display Display, opts ...Option) *Controller {
	t.Helper()
	table := launchTable()
	options := NewOptions(table, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"},
		Slider{Min: 0, Max: 10000, Step: 1000})
	return NewController(table, options, display, logr.Discard(), opts...)
}

// ============================================================================
// OPTIONS
// ============================================================================

func TestNewOptions(t *testing.T) {
	table := engine.NewLaunchTable([]engine.LaunchRecord{
		{LaunchSite: "KSC LC-39A", PayloadMassKg: 300, Class: 1, BoosterVersionCategory: "FT"},
		{LaunchSite: "Kwajalein", PayloadMassKg: 12100, Class: 0, BoosterVersionCategory: "B5"},
	})
	opts := NewOptions(table, []string{"CCAFS LC-40", "KSC LC-39A"}, Slider{Min: 0, Max: 10000, Step: 1000})

	wantSites := []SiteOption{
		{Label: AllSitesLabel, Value: engine.AllSites},
		{Label: "CCAFS LC-40", Value: "CCAFS LC-40"},
		{Label: "KSC LC-39A", Value: "KSC LC-39A"},
		{Label: "Kwajalein", Value: "Kwajalein"},
	}
	if diff := cmp.Diff(wantSites, opts.Sites); diff != "" {
		t.Errorf("sites (-want +got):\n%s", diff)
	}
	if opts.Slider.Min != 0 || opts.Slider.Max != 13000 {
		t.Errorf("slider bounds = [%g, %g], want [0, 13000]", opts.Slider.Min, opts.Slider.Max)
	}
	if len(opts.Slider.Marks) != 14 {
		t.Errorf("expected a mark per step, got %d", len(opts.Slider.Marks))
	}
	if opts.Slider.Marks[1] != (Mark{Value: 1000, Label: "1000"}) {
		t.Errorf("mark[1] = %+v", opts.Slider.Marks[1])
	}
	want := Selection{Site: engine.AllSites, Payload: engine.PayloadRange{Low: 300, High: 12100}}
	if opts.Default != want {
		t.Errorf("default = %+v, want %+v", opts.Default, want)
	}
	if opts.Placeholder == "" {
		t.Error("expected a selector placeholder")
	}
}

func TestSliderCheck(t *testing.T) {
	s := Slider{Min: 0, Max: 10000, Step: 1000}
	tests := []struct {
		name string
		r    engine.PayloadRange
		ok   bool
	}{
		{"full", engine.PayloadRange{Low: 0, High: 10000}, true},
		{"point", engine.PayloadRange{Low: 4000, High: 4000}, true},
		{"inverted", engine.PayloadRange{Low: 5000, High: 4000}, false},
		{"below", engine.PayloadRange{Low: -1, High: 4000}, false},
		{"above", engine.PayloadRange{Low: 0, High: 10001}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Check(tt.r)
			if (err == nil) != tt.ok {
				t.Fatalf("Check(%+v) = %v, want ok=%v", tt.r, err, tt.ok)
			}
			var invalid *InvalidSelectionError
			if err != nil && !errors.As(err, &invalid) {
				t.Errorf("expected *InvalidSelectionError, got %T", err)
			}
		})
	}
}

// ============================================================================
// CONTROLLER
// ============================================================================

func TestControllerStart(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if diff := cmp.Diff([]ChartID{ChartProportion, ChartScatter}, rec.charts()); diff != "" {
		t.Errorf("charts shown (-want +got):\n%s", diff)
	}
	if rec.shows[1].Spec.PointCount() != 3 {
		t.Errorf("initial scatter should cover every launch, got %d points", rec.shows[1].Spec.PointCount())
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v after Start", c.State())
	}
}

func TestSiteChangeRebuildsBothCharts(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)
	ctx := context.Background()

	if err := c.Dispatch(ctx, SiteChanged{Site: "CCAFS LC-40"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if diff := cmp.Diff([]ChartID{ChartProportion, ChartScatter}, rec.charts()); diff != "" {
		t.Errorf("charts shown (-want +got):\n%s", diff)
	}

	pie := rec.shows[0].Spec
	wantPie := engine.BuildProportionChart("CCAFS LC-40", launchTable())
	if diff := cmp.Diff(wantPie, pie); diff != "" {
		t.Errorf("proportion spec (-want +got):\n%s", diff)
	}
	if got := rec.shows[1].Spec.PointCount(); got != 2 {
		t.Errorf("scatter points = %d, want 2", got)
	}
	if c.Selection().Site != "CCAFS LC-40" {
		t.Errorf("selection = %+v", c.Selection())
	}
}

func TestRangeChangeRebuildsScatterOnly(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)

	err := c.Dispatch(context.Background(), RangeChanged{Range: engine.PayloadRange{Low: 1000, High: 5000}})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if diff := cmp.Diff([]ChartID{ChartScatter}, rec.charts()); diff != "" {
		t.Errorf("charts shown (-want +got):\n%s", diff)
	}
	if got := rec.shows[0].Spec.PointCount(); got != 2 {
		t.Errorf("scatter points = %d, want 2 (2500 and 5000 inclusive)", got)
	}
}

func TestEmptySelectionShowsPlaceholder(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)
	ctx := context.Background()

	if err := c.Dispatch(ctx, SiteChanged{Site: "VAFB SLC-4E"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	for _, s := range rec.shows {
		if !s.Spec.Empty {
			t.Errorf("%s chart should be a placeholder, got %+v", s.Chart, s.Spec)
		}
	}
}

func TestInvalidSelectionKeepsPrevious(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)
	ctx := context.Background()
	before := c.Selection()

	tests := []struct {
		name string
		ev   Event
	}{
		{"unknown site", SiteChanged{Site: "Boca Chica"}},
		{"inverted range", RangeChanged{Range: engine.PayloadRange{Low: 6000, High: 2000}}},
		{"out of bounds", RangeChanged{Range: engine.PayloadRange{Low: 0, High: 20000}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Dispatch(ctx, tt.ev)
			var invalid *InvalidSelectionError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidSelectionError, got %v", err)
			}
			if c.Selection() != before {
				t.Errorf("selection changed to %+v", c.Selection())
			}
		})
	}
	if len(rec.shows) != 0 {
		t.Errorf("rejected events must not redraw, got %v", rec.charts())
	}
}

func TestDispatchIsIdempotent(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := c.Dispatch(ctx, SiteChanged{Site: "KSC LC-39A"}); err != nil {
			t.Fatalf("Dispatch #%d: %v", i, err)
		}
	}
	if diff := cmp.Diff(rec.shows[:2], rec.shows[2:]); diff != "" {
		t.Errorf("repeated event produced different charts (-first +second):\n%s", diff)
	}
}

func TestDispatchReentryIsBusy(t *testing.T) {
	var c *Controller
	var inner error
	display := DisplayFunc(func(ctx context.Context, chart ChartID, _ engine.ChartSpec) error {
		if chart == ChartScatter && inner == nil {
			inner = c.Dispatch(ctx, SiteChanged{Site: engine.AllSites})
			if inner == nil {
				inner = errors.New("nested dispatch succeeded")
			}
		}
		return nil
	})
	c = newTestController(t, display)

	if err := c.Dispatch(context.Background(), RangeChanged{Range: engine.PayloadRange{Low: 0, High: 1000}}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !errors.Is(inner, ErrBusy) {
		t.Errorf("nested Dispatch = %v, want ErrBusy", inner)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v after Dispatch", c.State())
	}
}

func TestDisplayErrorIsReturned(t *testing.T) {
	boom := errors.New("socket closed")
	c := newTestController(t, &recorder{err: boom})

	err := c.Dispatch(context.Background(), SiteChanged{Site: "KSC LC-39A"})
	if !errors.Is(err, boom) {
		t.Fatalf("Dispatch = %v, want wrapped display error", err)
	}
	if c.Selection().Site != "KSC LC-39A" {
		t.Errorf("a valid selection is kept even if display fails, got %+v", c.Selection())
	}
}

func TestSubscribeAddsRecompute(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec)
	c.Subscribe(KindRange, ProportionChart)

	if err := c.Dispatch(context.Background(), RangeChanged{Range: engine.PayloadRange{Low: 0, High: 1000}}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if diff := cmp.Diff([]ChartID{ChartScatter, ChartProportion}, rec.charts()); diff != "" {
		t.Errorf("charts shown (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := newTestController(t, &recorder{}, WithMetrics(m))
	ctx := context.Background()

	_ = c.Dispatch(ctx, SiteChanged{Site: "KSC LC-39A"})
	_ = c.Dispatch(ctx, SiteChanged{Site: "nowhere"})
	_ = c.Dispatch(ctx, RangeChanged{Range: engine.PayloadRange{Low: 0, High: 2000}})

	if got := testutil.ToFloat64(m.events.WithLabelValues(string(KindSite))); got != 1 {
		t.Errorf("site events = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues(string(KindSite))); got != 1 {
		t.Errorf("rejected site events = %g, want 1", got)
	}
	if got := testutil.CollectAndCount(m.recompute); got != 2 {
		t.Errorf("recompute series = %d, want 2", got)
	}
}

// Package dashboard wires the two dashboard controls to the two chart
// builders.
//
// A Controller owns the current Selection and an explicit subscription
// table from event kind to the charts that must be rebuilt:
//
//	site  → proportion chart, scatter chart
//	range → scatter chart
//
// Dispatch is synchronous: an event is validated, the selection updated,
// and every subscribed chart rebuilt and handed to the Display before
// Dispatch returns. A Controller is not safe for concurrent use; run one
// per UI session. The LaunchTable it reads is shared and never written.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/spektr-org/launchdash/engine"
)

// ErrBusy is returned when Dispatch is re-entered from a Display.
var ErrBusy = errors.New("dashboard: dispatch while recomputing")

// ChartID names one of the dashboard charts.
type ChartID string

const (
	ChartProportion ChartID = "proportion"
	ChartScatter    ChartID = "scatter"
)

// State is the controller's recompute state.
type State int

const (
	StateIdle State = iota
	StateRecomputing
)

func (s State) String() string {
	if s == StateRecomputing {
		return "Recomputing"
	}
	return "Idle"
}

// Display receives freshly built charts and replaces what is shown.
type Display interface {
	Show(ctx context.Context, chart ChartID, spec engine.ChartSpec) error
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(ctx context.Context, chart ChartID, spec engine.ChartSpec) error

func (f DisplayFunc) Show(ctx context.Context, chart ChartID, spec engine.ChartSpec) error {
	return f(ctx, chart, spec)
}

// Recompute rebuilds one chart from the current selection.
type Recompute struct {
	Chart ChartID
	Build func(sel Selection, t *engine.LaunchTable, opts ...engine.Option) engine.ChartSpec
}

// ProportionChart rebuilds the pie chart; it only reads the site.
var ProportionChart = Recompute{
	Chart: ChartProportion,
	Build: func(sel Selection, t *engine.LaunchTable, opts ...engine.Option) engine.ChartSpec {
		return engine.BuildProportionChart(sel.Site, t, opts...)
	},
}

// ScatterChart rebuilds the scatter chart from site and payload range.
var ScatterChart = Recompute{
	Chart: ChartScatter,
	Build: func(sel Selection, t *engine.LaunchTable, opts ...engine.Option) engine.ChartSpec {
		return engine.BuildScatterChart(sel.Site, sel.Payload, t, opts...)
	},
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records dispatches and recompute durations.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithEngineOptions passes options to the chart builders.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *Controller) { c.engineOpts = opts }
}

// Controller is the reactive controller of one dashboard session.
type Controller struct {
	table         *engine.LaunchTable
	options       Options
	display       Display
	log           logr.Logger
	metrics       *Metrics
	engineOpts    []engine.Option
	subscriptions map[EventKind][]Recompute
	selection     Selection
	state         State
}

// NewController creates a controller positioned on options.Default.
func NewController(table *engine.LaunchTable, options Options, display Display, log logr.Logger, opts ...Option) *Controller {
	c := &Controller{
		table:     table,
		options:   options,
		display:   display,
		log:       log,
		selection: options.Default,
		subscriptions: map[EventKind][]Recompute{
			KindSite:  {ProportionChart, ScatterChart},
			KindRange: {ScatterChart},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe adds a recompute to the charts rebuilt on events of kind.
func (c *Controller) Subscribe(kind EventKind, r Recompute) {
	c.subscriptions[kind] = append(c.subscriptions[kind], r)
}

// Selection returns the current control values.
func (c *Controller) Selection() Selection { return c.selection }

// State returns the recompute state.
func (c *Controller) State() State { return c.state }

// Options returns the control options the controller validates against.
func (c *Controller) Options() Options { return c.options }

// Start shows every chart once for the current selection.
func (c *Controller) Start(ctx context.Context) error {
	return c.run(ctx, "initial", []Recompute{ProportionChart, ScatterChart})
}

// Dispatch handles one control event to completion.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	if c.state == StateRecomputing {
		return ErrBusy
	}

	id := uuid.NewString()
	next, err := ev.apply(c.selection, &c.options)
	if err != nil {
		c.metrics.observeRejected(ev.Kind())
		c.log.V(1).Info("rejected selection", "event", id, "kind", ev.Kind(), "reason", err.Error())
		return err
	}

	c.metrics.observeEvent(ev.Kind())
	c.selection = next
	c.log.V(1).Info("selection changed", "event", id, "kind", ev.Kind(), "site", next.Site,
		"payloadLow", next.Payload.Low, "payloadHigh", next.Payload.High)
	return c.run(ctx, id, c.subscriptions[ev.Kind()])
}

func (c *Controller) run(ctx context.Context, id string, recomputes []Recompute) error {
	c.state = StateRecomputing
	defer func() { c.state = StateIdle }()

	for _, r := range recomputes {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		spec := r.Build(c.selection, c.table, c.engineOpts...)
		elapsed := time.Since(start)
		c.metrics.observeRecompute(r.Chart, elapsed)
		c.log.V(2).Info("chart rebuilt", "event", id, "chart", r.Chart, "points", spec.PointCount(),
			"empty", spec.Empty, "took", elapsed)

		if err := c.display.Show(ctx, r.Chart, spec); err != nil {
			return fmt.Errorf("show %s chart: %w", r.Chart, err)
		}
	}
	return nil
}

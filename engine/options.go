package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for aggregators and chart builders
// ============================================================================

// Site orderings for per-site aggregates.
const (
	OrderFirstSeen = "first_seen" // first distinct appearance in the table
	OrderAlpha     = "alpha_asc"  // sorted by site name
	OrderRate      = "rate_desc"  // highest success rate first
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	SiteOrder string   // OrderFirstSeen, OrderAlpha or OrderRate
	Palette   []string // series colours, cycled
}

// WithSiteOrder sets how per-site shares are ordered.
// Unknown values fall back to first-seen order.
func WithSiteOrder(order string) Option {
	return func(c *config) {
		c.SiteOrder = order
	}
}

// WithPalette overrides the default colour palette.
func WithPalette(colors ...string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.Palette = colors
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		SiteOrder: OrderFirstSeen,
		Palette:   defaultColors,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Package render draws engine chart specs as PNG or SVG images with
// go-chart. It is the static counterpart of the browser dashboard and is
// used by the chart CLI command and the /api/charts/{chart}.{ext} endpoints.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-logr/logr"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/launchdash/engine"
)

// Format is an image output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat maps a file extension or flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Default image size.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Renderer draws chart specs at a fixed size.
type Renderer struct {
	Width  int
	Height int
	log    logr.Logger
}

// New returns a Renderer; non-positive sizes fall back to the defaults.
func New(width, height int, log logr.Logger) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Width: width, Height: height, log: log}
}

// Render writes spec to w in format f.
//
// Placeholder specs and pies with nothing to draw produce an image with
// the title and message instead of an error. If go-chart fails on a
// non-empty spec, a placeholder noting the failure is written, so a
// display always has something to replace the previous chart with.
func (r *Renderer) Render(w io.Writer, spec engine.ChartSpec, f Format) error {
	var buf bytes.Buffer
	var err error
	switch {
	case spec.Empty:
		err = r.placeholder(&buf, spec.Title, spec.Message, f)
	case spec.ChartType == engine.ChartPie:
		err = r.pie(&buf, spec, f)
	case spec.ChartType == engine.ChartScatter:
		err = r.scatter(&buf, spec, f)
	default:
		return fmt.Errorf("unsupported chart type %q", spec.ChartType)
	}

	if err != nil {
		r.log.Info("chart render failed, drawing placeholder", "chart", spec.ChartType, "title", spec.Title, "error", err.Error())
		buf.Reset()
		if perr := r.placeholder(&buf, spec.Title, "Chart could not be rendered.", f); perr != nil {
			return fmt.Errorf("render %s chart: %w", spec.ChartType, errors.Join(err, perr))
		}
	}
	_, err = buf.WriteTo(w)
	return err
}

// ============================================================================
// PIE
// ============================================================================

var errNothingToDraw = errors.New("nothing to draw")

func (r *Renderer) pie(w io.Writer, spec engine.ChartSpec, f Format) error {
	if len(spec.Series) == 0 {
		return r.placeholder(w, spec.Title, "No launches loaded.", f)
	}

	points := spec.Series[0].Data
	total := 0.0
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if total == 0 {
		return r.placeholder(w, spec.Title, "No successful launches in the selection.", f)
	}

	values := make([]chart.Value, 0, len(points))
	for i, p := range points {
		// zero slices make go-chart draw degenerate arcs
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", p.Label, engine.FormatPercent(p.Value/total)),
			Value: p.Value,
			Style: chart.Style{
				FillColor:   colorAt(spec.Colors, i),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}

	pc := chart.PieChart{
		Title:  spec.Title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	return pc.Render(f.provider(), w)
}

// ============================================================================
// SCATTER
// ============================================================================

func (r *Renderer) scatter(w io.Writer, spec engine.ChartSpec, f Format) error {
	if spec.PointCount() == 0 {
		return errNothingToDraw
	}

	series := make([]chart.Series, 0, len(spec.Series))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range spec.Series {
		xs := make([]float64, 0, len(s.Data))
		ys := make([]float64, 0, len(s.Data))
		for _, p := range s.Data {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
		col := parseColor(s.Color)
		if s.Color == "" {
			col = colorAt(spec.Colors, i)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(col),
		})
	}

	xr := payloadAxisRange(lo, hi)
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           spec.XAxis,
			Range:          xr,
			GridMajorStyle: gridStyle(spec.ShowGrid),
		},
		YAxis: chart.YAxis{
			Name:  spec.YAxis,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{
				{Value: engine.ClassFailure, Label: "0"},
				{Value: engine.ClassSuccess, Label: "1"},
			},
			GridMajorStyle: gridStyle(spec.ShowGrid),
		},
		Series: series,
	}
	if spec.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(f.provider(), w)
}

// payloadAxisRange pads the observed payloads so single points and equal
// payloads still give go-chart a non-zero range.
func payloadAxisRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad < 250 {
		pad = 250
	}
	return &chart.ContinuousRange{Min: math.Max(0, lo-pad), Max: hi + pad}
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func gridStyle(show bool) chart.Style {
	if !show {
		return chart.Style{Hidden: true}
	}
	return chart.Style{StrokeColor: drawing.ColorFromHex("e5e7eb"), StrokeWidth: 1}
}

// ============================================================================
// PLACEHOLDER
// ============================================================================

func (r *Renderer) placeholder(w io.Writer, title, message string, f Format) error {
	rr, err := f.provider()(r.Width, r.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	rr.SetFillColor(drawing.ColorWhite)
	rr.MoveTo(0, 0)
	rr.LineTo(r.Width, 0)
	rr.LineTo(r.Width, r.Height)
	rr.LineTo(0, r.Height)
	rr.Close()
	rr.Fill()

	rr.SetFont(font)
	if title != "" {
		rr.SetFontColor(drawing.ColorFromHex("111827"))
		rr.SetFontSize(16)
		box := rr.MeasureText(title)
		rr.Text(title, (r.Width-box.Width())/2, 32)
	}
	if message != "" {
		rr.SetFontColor(drawing.ColorFromHex("6b7280"))
		rr.SetFontSize(13)
		box := rr.MeasureText(message)
		rr.Text(message, (r.Width-box.Width())/2, r.Height/2)
	}
	return rr.Save(w)
}

// ============================================================================
// COLORS
// ============================================================================

func parseColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}

func colorAt(colors []string, i int) drawing.Color {
	if len(colors) == 0 {
		return chart.ColorBlue
	}
	return parseColor(colors[i%len(colors)])
}

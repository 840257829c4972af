package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/render"
)

var chartFlags struct {
	site   string
	low    float64
	high   float64
	format string
	out    string
}

var chartCmd = &cobra.Command{
	Use:   "chart <proportion|scatter>",
	Short: "Build one dashboard chart for a selection",
	Long: `Builds the proportion (pie) or scatter chart for a site and payload range,
validated exactly as the dashboard controls are, and writes it as a chart
spec (json, yaml), as chart data (csv) or as an image (png, svg).

Omitted payload bounds default to the dataset's minimum and maximum.`,
	Example: `  launchdash chart proportion --site "CCAFS LC-40"
  launchdash chart scatter --low 2500 --high 7500 --format csv
  launchdash chart scatter --format png -o scatter.png`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{engine.KindProportion, engine.KindScatter},
	RunE:      runChart,
}

func init() {
	f := chartCmd.Flags()
	f.StringVar(&chartFlags.site, "site", engine.AllSites, "Launch site, or ALL")
	f.Float64Var(&chartFlags.low, "low", 0, "Lowest payload mass in kg (inclusive)")
	f.Float64Var(&chartFlags.high, "high", 0, "Highest payload mass in kg (inclusive)")
	f.StringVar(&chartFlags.format, "format", "json", "Output format: json, yaml, csv, png, svg")
	f.StringVarP(&chartFlags.out, "out", "o", "", "Write output to file instead of stdout")
}

func runChart(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if kind != engine.KindProportion && kind != engine.KindScatter {
		return fmt.Errorf("unknown chart %q: want %s or %s", kind, engine.KindProportion, engine.KindScatter)
	}

	cfg, log, flush, ds, err := setup()
	defer flush()
	if err != nil {
		return err
	}

	opts := controlOptions(cfg, ds.Table)
	sel := opts.Default
	sel.Site = chartFlags.site
	if cmd.Flags().Changed("low") {
		sel.Payload.Low = chartFlags.low
	}
	if cmd.Flags().Changed("high") {
		sel.Payload.High = chartFlags.high
	}
	if err := opts.Check(sel); err != nil {
		return err
	}

	result, err := engine.Execute(engine.Query{Kind: kind, Site: sel.Site, Payload: sel.Payload}, ds.Table, engineOptions(cfg)...)
	if err != nil {
		return err
	}
	spec := *result.Chart

	var w io.Writer = cmd.OutOrStdout()
	if chartFlags.out != "" {
		f, err := os.Create(chartFlags.out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch chartFlags.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(spec)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(spec); err == nil {
			err = enc.Close()
		}
	case "csv":
		err = writeChartCSV(w, spec)
	default:
		format, ferr := render.ParseFormat(chartFlags.format)
		if ferr != nil {
			return ferr
		}
		err = render.New(cfg.Charts.Width, cfg.Charts.Height, log.WithName("render")).Render(w, spec, format)
	}
	if err != nil {
		return fmt.Errorf("write %s chart: %w", kind, err)
	}
	if chartFlags.out != "" {
		log.Info("chart written", "chart", kind, "format", chartFlags.format, "path", chartFlags.out)
	}
	return nil
}

// ============================================================================
// CSV OUTPUT — chart data ready for a spreadsheet
// ============================================================================

// writeChartCSV writes pie slices as label,value rows and scatter points
// as series,label,x,y rows. A placeholder chart writes its message.
func writeChartCSV(w io.Writer, spec engine.ChartSpec) error {
	cw := csv.NewWriter(w)

	switch {
	case spec.Empty:
		_ = cw.Write([]string{"Summary"})
		_ = cw.Write([]string{spec.Message})
	case spec.ChartType == engine.ChartPie:
		_ = cw.Write([]string{"Label", "Value"})
		for _, s := range spec.Series {
			for _, d := range s.Data {
				_ = cw.Write([]string{d.Label, fmtNum(d.Value)})
			}
		}
	default:
		x, y := spec.XAxis, spec.YAxis
		if x == "" {
			x = "X"
		}
		if y == "" {
			y = "Y"
		}
		_ = cw.Write([]string{"Series", "Label", x, y})
		for _, s := range spec.Series {
			for _, d := range s.Data {
				_ = cw.Write([]string{s.Name, d.Label, fmtNum(d.X), fmtNum(d.Y)})
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 4 decimals
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

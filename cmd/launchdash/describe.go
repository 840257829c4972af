package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/spektr-org/launchdash/engine"
)

var describeFlags struct {
	site     string
	markdown bool
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarise the launch dataset per site",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

func init() {
	f := describeCmd.Flags()
	f.StringVar(&describeFlags.site, "site", engine.AllSites, "Restrict the summary to one launch site")
	f.BoolVar(&describeFlags.markdown, "markdown", false, "Render the table as Markdown")
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	cfg, _, flush, ds, err := setup()
	defer flush()
	if err != nil {
		return err
	}
	if describeFlags.site != engine.AllSites {
		opts := controlOptions(cfg, ds.Table)
		if !opts.HasSite(describeFlags.site) {
			return fmt.Errorf("unknown launch site %q", describeFlags.site)
		}
	}

	q := engine.Query{Site: describeFlags.site}
	q.Kind = engine.KindTable
	tbl, err := engine.Execute(q, ds.Table, engineOptions(cfg)...)
	if err != nil {
		return err
	}
	q.Kind = engine.KindText
	txt, err := engine.Execute(q, ds.Table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset: %s\n", cfg.Dataset.Path)
	writeSummary(out, txt.Text)
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(tbl.Table, describeFlags.markdown))
	return nil
}

func writeSummary(w io.Writer, t *engine.TextData) {
	if t.Launches == 0 {
		fmt.Fprintln(w, t.Reply)
		return
	}
	fmt.Fprintf(w, "Launches: %s (%s successful, %s)\n",
		humanize.Comma(int64(t.Launches)), humanize.Comma(int64(t.Successes)), engine.FormatPercent(t.Rate))
	fmt.Fprintf(w, "Sites:    %d\n", len(t.Sites))
	fmt.Fprintf(w, "Payload:  %s – %s kg\n",
		humanize.Commaf(t.Payload.Low), humanize.Commaf(t.Payload.High))
}

// renderTable draws a TableData with go-pretty, numeric columns right
// aligned and the summary as footer.
func renderTable(td *engine.TableData, markdown bool) string {
	w := table.NewWriter()
	if !markdown {
		w.SetStyle(table.StyleLight)
	}
	w.SetTitle(td.Title)

	header := make(table.Row, len(td.Columns))
	configs := make([]table.ColumnConfig, len(td.Columns))
	for i, c := range td.Columns {
		header[i] = c.Label
		align := text.AlignLeft
		if c.Align == "right" {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignFooter: align}
	}
	w.AppendHeader(header)
	w.SetColumnConfigs(configs)

	for _, r := range td.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		w.AppendRow(row)
	}

	if td.Summary != nil {
		footer := make(table.Row, len(td.Columns))
		footer[0] = td.Summary.Label
		for i, c := range td.Columns[1:] {
			footer[i+1] = td.Summary.Values[c.Key]
		}
		w.AppendFooter(footer)
	}

	if markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/berlin-dashboard/internal/pipeline"
	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

func newTablesCmd(g *globalFlags) *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the latest incidence, average, and new case tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTables(cmd, g, sel)
		},
	}
	sel.bind(cmd.Flags())
	return cmd
}

func runTables(cmd *cobra.Command, g *globalFlags, sel selectionFlags) error {
	logger := g.logger(cmd)
	p := newPipeline(g.source(g.feedFile, g.feedURL, logger), logger)

	d, err := p.Run(cmd.Context(), sel.selection())
	if err != nil {
		return errors.New(pipeline.Describe(err))
	}
	return printTables(cmd, d)
}

func printTables(cmd *cobra.Command, d presentation.Dashboard) error {
	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	_, _ = fmt.Fprintf(w, "%s  data through %s\n",
		bold.Sprint(strings.Join(d.Selection.Entities, ", ")),
		d.DataThrough.Format(time.DateOnly))

	for _, sec := range d.Sections {
		t, ok := d.Table(sec.Kind)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s\n", cyan.Sprint(sec.Heading))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		header := []string{bold.Sprint("Datum")}
		for _, c := range t.Columns {
			header = append(header, bold.Sprint(c))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
		for _, row := range t.Rows {
			cells := []string{row.Date.Format(time.DateOnly)}
			for _, v := range row.Cells {
				cells = append(cells, t.Format(v))
			}
			_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/berlin-dashboard/internal/pipeline"
	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
	"github.com/couchcryptid/berlin-dashboard/internal/render"
)

type chartsFlags struct {
	selectionFlags
	out    string
	width  int
	height int
}

func newChartsCmd(g *globalFlags) *cobra.Command {
	var f chartsFlags
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Write the three dashboard charts as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCharts(cmd, g, f)
		},
	}
	f.bind(cmd.Flags())
	cmd.Flags().StringVarP(&f.out, "out", "o", ".", "output directory")
	cmd.Flags().IntVar(&f.width, "width", 1024, "image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 576, "image height in pixels")
	return cmd
}

func runCharts(cmd *cobra.Command, g *globalFlags, f chartsFlags) error {
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", f.width, f.height)
	}

	logger := g.logger(cmd)
	p := newPipeline(g.source(g.feedFile, g.feedURL, logger), logger)

	d, err := p.Run(cmd.Context(), f.selection())
	if err != nil {
		return errors.New(pipeline.Describe(err))
	}

	if err := os.MkdirAll(f.out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	r := render.New(f.width, f.height)
	green := color.New(color.FgGreen)
	for _, spec := range d.Charts {
		path := filepath.Join(f.out, chartFileName(spec.Kind))
		if err := writeChart(r, path, spec); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green.Sprint("wrote"), path)
	}
	return nil
}

func chartFileName(kind presentation.MetricKind) string {
	return string(kind) + ".png"
}

func writeChart(r *render.Renderer, path string, spec presentation.ChartSpec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := r.Render(f, spec); err != nil {
		return fmt.Errorf("render %s chart: %w", spec.Kind, err)
	}
	return nil
}

package main

import (
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/berlin-dashboard/internal/adapter/lageso"
	"github.com/couchcryptid/berlin-dashboard/internal/domain"
	"github.com/couchcryptid/berlin-dashboard/internal/observability"
	"github.com/couchcryptid/berlin-dashboard/internal/pipeline"
)

// globalFlags holds the persistent flag values shared by every subcommand.
type globalFlags struct {
	feedFile    string
	feedURL     string
	feedTimeout time.Duration
	verbose     bool
	noColor     bool
}

// newRootCmd builds the command tree. Each call has its own flag state.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "berlinreport",
		Short: "Berlin COVID-19 district figures from the LAGeSo feed",
		Long: `berlinreport loads the LAGeSo per-district case feed and derives the
seven-day average, seven-day sum, and seven-day incidence per 100,000
residents for each Berlin district and the city as a whole.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if g.noColor {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.feedFile, "feed-file", "", "read the feed from a local CSV file instead of the LAGeSo URL")
	pf.StringVar(&g.feedURL, "feed-url", lageso.DefaultURL, "feed URL")
	pf.DurationVar(&g.feedTimeout, "feed-timeout", 30*time.Second, "HTTP timeout per feed request")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log pipeline progress to stderr")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newTablesCmd(g))
	root.AddCommand(newChartsCmd(g))
	root.AddCommand(newPublishCmd(g))
	root.AddCommand(newValidateCmd(g))
	return root
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (g *globalFlags) source(file, url string, logger *slog.Logger) pipeline.FeedFetcher {
	if file != "" {
		return lageso.FileSource{Path: file}
	}
	return lageso.NewClient(url, g.feedTimeout, logger)
}

// selectionFlags are the view flags shared by tables and charts.
type selectionFlags struct {
	districts []string
	days      int
	light     bool
}

func (f *selectionFlags) bind(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&f.districts, "district", "d", []string{"Lichtenberg"}, "entity to include (repeatable)")
	fs.IntVar(&f.days, "days", domain.DefaultWindowDays, "trailing days to chart, 0 for the full history")
	fs.BoolVar(&f.light, "light", false, "use the light chart theme")
}

func (f *selectionFlags) selection() domain.Selection {
	return domain.Selection{
		Entities:   append([]string(nil), f.districts...),
		WindowDays: f.days,
		LightTheme: f.light,
	}
}

func newPipeline(f pipeline.FeedFetcher, logger *slog.Logger) *pipeline.Pipeline {
	retries := 2
	if _, ok := f.(lageso.FileSource); ok {
		retries = 0
	}
	return pipeline.New(f, logger, observability.NewUnregistered(), pipeline.Options{
		Retries:        retries,
		InitialBackoff: 500 * time.Millisecond,
	})
}

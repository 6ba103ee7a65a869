package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/berlin-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/berlin-dashboard/internal/config"
	"github.com/couchcryptid/berlin-dashboard/internal/observability"
	"github.com/couchcryptid/berlin-dashboard/internal/pipeline"
)

func newPublishCmd(g *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the latest figures for every entity to Kafka",
		Long: `publish derives the latest row for every catalog entity and writes one
message per entity to KAFKA_TOPIC on KAFKA_BROKERS. The feed location
comes from FEED_FILE or FEED_URL unless overridden by flags.

With --dry-run the snapshots are printed as JSON lines instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, g, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print snapshots instead of publishing")
	return cmd
}

func runPublish(cmd *cobra.Command, g *globalFlags, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !dryRun && !cfg.PublishEnabled() {
		return errors.New("KAFKA_BROKERS is not set")
	}

	file, url := cfg.FeedFile, cfg.FeedURL
	if cmd.Flags().Changed("feed-file") {
		file = g.feedFile
	}
	if cmd.Flags().Changed("feed-url") {
		url = g.feedURL
	}

	logger := g.logger(cmd)
	p := newPipeline(g.source(file, url, logger), logger)

	snaps, err := p.Latest(cmd.Context())
	if err != nil {
		return errors.New(pipeline.Describe(err))
	}

	if dryRun {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, s := range snaps {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	}

	w := kafka.NewWriter(cfg, observability.NewUnregistered(), logger)
	defer w.Close()
	if err := w.Publish(cmd.Context(), snaps); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "published %d snapshots to %s\n", len(snaps), cfg.KafkaTopic)
	return nil
}

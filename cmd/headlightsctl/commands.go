package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/okian/headlights/internal/adapters/mq/subscriber"
	"github.com/okian/headlights/internal/config"
	"github.com/okian/headlights/internal/ctl"
	"github.com/okian/headlights/internal/domain/model"
)

func (o *options) requestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(o.timeout)
	if err != nil {
		return 0, fmt.Errorf("--timeout: %w", err)
	}
	return d, nil
}

func (o *options) client() (*ctl.Client, error) {
	d, err := o.requestTimeout()
	if err != nil {
		return nil, err
	}
	return ctl.NewClient(o.url, d)
}

func createFireCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fire <event>",
		Short: "Fire a named event over HTTP",
		Long:  `Fires a pre-classified event such as calendar, settings or work_home through GET /event/{name}.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			body, err := c.Fire(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func createErrorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "error",
		Short: "Fire the error alarm over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			body, err := c.Error(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func createStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the daemon's outcome counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

func createPublishCmd(opts *options) *cobra.Command {
	var ev subscriber.EventMessage

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a commute event over NATS and wait for the ack",
		Long: `Publishes an event the way the upstream event source does and waits until ` +
			`the daemon has shown or dropped it. A uuid message id is generated unless --id is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			timeout, err := opts.requestTimeout()
			if err != nil {
				return err
			}
			nc, err := nats.Connect(opts.natsURL, nats.Name("headlightsctl"), nats.Timeout(timeout))
			if err != nil {
				return fmt.Errorf("connect %s: %w", opts.natsURL, err)
			}
			defer nc.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			id, err := ctl.Publish(ctx, nc, opts.subject, ev)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "acked %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&ev.Action, "action", model.ActionDirections, "Event action")
	cmd.Flags().StringVar(&ev.Orig, "orig", "", "Origin code (0 location, 1 home, 2 work)")
	cmd.Flags().StringVar(&ev.Dest, "dest", "", "Destination code (0 location, 1 home, 2 work)")
	cmd.Flags().StringVar(&ev.ID, "id", "", "Message id used for redelivery dedupe")
	return cmd
}

func createClassifyCmd() *cobra.Command {
	var action, orig, dest string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show which event type a raw event classifies as",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), ctl.Classify(action, orig, dest))
		},
	}
	cmd.Flags().StringVar(&action, "action", model.ActionDirections, "Event action")
	cmd.Flags().StringVar(&orig, "orig", "", "Origin code")
	cmd.Flags().StringVar(&dest, "dest", "", "Destination code")
	return cmd
}

func createQuietCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "quiet",
		Short: "Check whether a time falls in quiet hours",
		Long:  `Loads the daemon configuration (HEADLIGHTS_CONFIG and HEADLIGHTS_* variables) and evaluates its quiet hours.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			when := time.Now()
			if at != "" {
				if when, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}
			quiet, err := ctl.Quiet(cfg.QuietHours, when)
			if err != nil {
				return err
			}
			state := "active"
			if quiet {
				state = "quiet"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", when.Format(time.RFC3339), state)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 time to check (default now)")
	return cmd
}

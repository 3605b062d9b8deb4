// Command headlightsctl fires events at a running headlights daemon and
// checks the classifier and quiet hours offline.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options shared by every subcommand.
type options struct {
	url     string
	natsURL string
	subject string
	timeout string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "headlightsctl",
		Short:         "Control a headlights LED strip",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.url, "url", "http://localhost:9080", "Base URL of the headlights HTTP API")
	root.PersistentFlags().StringVar(&opts.natsURL, "nats", "nats://127.0.0.1:4222", "NATS server URL")
	root.PersistentFlags().StringVar(&opts.subject, "subject", "headlights.events", "NATS subject the daemon subscribes to")
	root.PersistentFlags().StringVar(&opts.timeout, "timeout", "10s", "Request timeout")

	root.AddCommand(
		createFireCmd(opts),
		createErrorCmd(opts),
		createStatsCmd(opts),
		createPublishCmd(opts),
		createClassifyCmd(),
		createQuietCmd(),
	)
	return root
}

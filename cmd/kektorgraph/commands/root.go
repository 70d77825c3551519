package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanonone/kektorgraph/pkg/client"
)

const defaultServerURL = "http://localhost:9091"

// rootOptions holds the persistent flags.
type rootOptions struct {
	serverURL string
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kektorgraph",
		Short: "In-memory knowledge graph service",
		Long: `kektorgraph - a directed, labeled knowledge graph held in memory.

Run the service with 'kektorgraph serve', then use the other commands
to load and query it over HTTP.

Examples:
  kektorgraph serve --config kektorgraph.yaml
  kektorgraph import relationships.csv
  kektorgraph neighbors Amazon --direction in
  kektorgraph paths Laptop Books --shortest`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serverDefault := os.Getenv("KEKTORGRAPH_URL")
	if serverDefault == "" {
		serverDefault = defaultServerURL
	}
	cmd.PersistentFlags().StringVarP(&opts.serverURL, "server", "s", serverDefault, "base URL of the kektorgraph server (env KEKTORGRAPH_URL)")

	cmd.AddCommand(
		newServeCmd(),
		newImportCmd(opts),
		newStatsCmd(opts),
		newNeighborsCmd(opts),
		newPathsCmd(opts),
		newSearchCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

func (o *rootOptions) client() *client.Client {
	return client.NewFromURL(o.serverURL)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

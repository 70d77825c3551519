package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		async   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a CSV file of relationships",
		Long: `Upload a CSV file with the columns entity1, relationship and entity2.

Rows that cannot be read or applied are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			c := opts.client()
			name := filepath.Base(args[0])
			out := cmd.OutOrStdout()

			if !async {
				res, err := c.UploadCSV(name, f)
				if err != nil {
					return err
				}
				renderBatch(out, &res.BatchResult, res.SkippedLines)
				return nil
			}

			task, err := c.UploadCSVAsync(name, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, Styles.Muted.Render("import task "+task.ID))
			if err := task.Wait(200*time.Millisecond, timeout); err != nil {
				return err
			}
			renderBatch(out, task.Result, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "import in the background and poll the task")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for an async import")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.client().Stats()
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func newNeighborsCmd(opts *rootOptions) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "neighbors <entity>",
		Short: "List the relationships around an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().QueryNeighbors(args[0], direction)
			if err != nil {
				return err
			}
			renderNeighbors(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "both", "in, out or both")
	return cmd
}

func newPathsCmd(opts *rootOptions) *cobra.Command {
	var shortest bool

	cmd := &cobra.Command{
		Use:   "paths <source> <target>",
		Short: "Find paths between two entities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if shortest {
				res, err := c.ShortestPath(args[0], args[1])
				if err != nil {
					return err
				}
				renderShortestPath(cmd.OutOrStdout(), res)
				return nil
			}

			res, err := c.FindPaths(args[0], args[1])
			if err != nil {
				return err
			}
			renderPaths(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&shortest, "shortest", false, "show only a path with the fewest relationships")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <relationship>",
		Short: "List relationships with a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().SearchRelationship(args[0])
			if err != nil {
				return err
			}
			renderSearch(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the graph as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.client().Export()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), Styles.Muted.Render("wrote "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	return cmd
}

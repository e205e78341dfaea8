package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent normalize runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				runs, err := deps.LocationHandler.HandleRuns(ctx, limit)
				if err != nil {
					return fmt.Errorf("listing runs: %w", err)
				}
				count, err := deps.LocationHandler.HandleCount(ctx)
				if err != nil {
					return fmt.Errorf("counting locations: %w", err)
				}
				printRuns(cmd.OutOrStdout(), runs, count)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultRunsLimit, "Maximum number of runs")

	return cmd
}

func printRuns(w io.Writer, runs []entities.ImportRun, locations int) {
	fmt.Fprintf(w, "%d locations stored\n", locations)
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintln(w)
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  locations=%d hours=%d/%d diagnostics=%d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			shortID(r.ID),
			r.Locations,
			r.HoursCreated,
			r.HoursCreated+r.HoursExisting,
			r.Diagnostics,
			r.SourceFile,
		)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <location-id>",
		Short: "Delete a location",
		Long:  "Deletes a location together with its service and pet type links and business hours.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			return runDelete(cmd, id, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, id int64, force bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(func(deps *Deps) error {
		if !force && !confirmAction(cmd.InOrStdin(), out, fmt.Sprintf("Delete location %d?", id)) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := deps.LocationHandler.HandleDelete(ctx, id); err != nil {
			return fmt.Errorf("deleting location: %w", err)
		}
		fmt.Fprintf(out, "Deleted location: %d\n", id)
		return nil
	})
}

func confirmAction(in io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

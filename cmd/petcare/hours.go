package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/domain/hours"
)

func newHoursCmd() *cobra.Command {
	var token bool

	cmd := &cobra.Command{
		Use:   "hours <text>",
		Short: "Show how one day's business hours text is parsed",
		Long: "Splits free-text hours such as \"9:00-12:00, 14:00-18:00\" into intervals.\n" +
			"With --token the argument is read as a single clock time.",
		Example: "  petcare hours '09:00–12:00、14:00–18:00'\n  petcare hours --token 9PM",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token {
				return printToken(cmd.OutOrStdout(), args[0])
			}
			printIntervals(cmd.OutOrStdout(), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&token, "token", false, "Normalize a single time token")

	return cmd
}

func printToken(w io.Writer, token string) error {
	m := hours.MatchToken(token)
	if !m.OK() {
		if m.Rule != "" {
			return fmt.Errorf("%w (rule %s)", m.Err, m.Rule)
		}
		return m.Err
	}
	fmt.Fprintf(w, "%s  [%s]\n", m.Time, m.Rule)
	return nil
}

func printIntervals(w io.Writer, raw string) {
	switch {
	case hours.IsClosed(raw):
		fmt.Fprintln(w, "closed")
		return
	case hours.IsAllDay(raw):
		fmt.Fprintf(w, "%s-%s  (24 hours)\n", hours.AllDay.Open, hours.AllDay.Close)
		return
	}

	n := 0
	for iv, err := range hours.Intervals(raw) {
		if err != nil {
			fmt.Fprintf(w, "dropped: %v\n", err)
			continue
		}
		n++
		fmt.Fprintf(w, "%d. %s-%s\n", n, iv.Open, iv.Close)
	}
	if n == 0 {
		fmt.Fprintln(w, "no intervals")
	}
}

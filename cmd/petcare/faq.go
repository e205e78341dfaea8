package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/domain/services"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

func newFAQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Manage the FAQ knowledge base",
		Long:  "Loads question/answer sheets into Qdrant and answers questions from them with a language model.",
	}

	cmd.AddCommand(newFAQIngestCmd(), newFAQAskCmd())

	return cmd
}

func newFAQIngestCmd() *cobra.Command {
	var opts handlers.FAQIngestOptions

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Load an .xlsx or .csv FAQ sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return withFAQHandler(func(h *handlers.FAQHandler, _ *config.Config) error {
				result, err := h.HandleIngest(ctx, args[0], opts)
				if err != nil {
					return fmt.Errorf("ingesting FAQ: %w", err)
				}

				verb := "Ingested"
				if opts.DryRun {
					verb = "Validated"
				}
				fmt.Fprintf(out, "%s %d entries from %s\n", verb, result.Ingested, result.FilePath)
				for _, e := range result.Errors {
					fmt.Fprintf(out, "  skipped: %s\n", e.Error())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "Replace entries previously loaded from this file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate without embedding or saving")

	return cmd
}

func newFAQAskCmd() *cobra.Command {
	var (
		limit      int
		category   string
		showSource bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the FAQ",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			question := strings.Join(args, " ")

			return withFAQHandler(func(h *handlers.FAQHandler, cfg *config.Config) error {
				opts := services.AskOptions{
					Limit:    limit,
					Category: category,
					MinScore: cfg.FAQ.MinScore,
				}
				if opts.Limit <= 0 {
					opts.Limit = cfg.FAQ.Limit
				}

				answer, err := h.HandleAsk(ctx, question, opts)
				if errors.Is(err, services.ErrNoReferences) {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching FAQ entries found.")
					return nil
				}
				if err != nil {
					return fmt.Errorf("answering question: %w", err)
				}

				printAnswer(cmd.OutOrStdout(), answer, showSource)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Number of FAQ entries to ground the answer on (default: faq.limit)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only use entries of this category")
	cmd.Flags().BoolVar(&showSource, "sources", false, "Show the FAQ entries used")

	return cmd
}

func printAnswer(w io.Writer, answer *services.Answer, showSource bool) {
	fmt.Fprintln(w, answer.Text)
	if !showSource {
		return
	}

	fmt.Fprintln(w)
	for i, ref := range answer.References {
		fmt.Fprintf(w, "[%d] (%.2f) %s\n", i+1, ref.Score, ref.Question)
	}
}

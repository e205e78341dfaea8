package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/infrastructure/exporters"
)

type exportFlags struct {
	as     string
	output string
	format string
	locale string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Normalize a file and write the result without saving",
		Long:  "Normalizes locations and writes the relational rows as JSON, SQL INSERT statements, or a CSV hours table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.as, "as", "json", "Output format (json, sql, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Input format (json, csv, auto)")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "Period labels (en, zh-TW); defaults to normalize.locale")

	return cmd
}

func runExport(cmd *cobra.Command, filePath string, flags exportFlags) error {
	exporter, err := exporters.ForFormat(flags.as)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withExportDeps(func(deps *Deps) error {
		opts := handlers.NormalizeOptions{Format: flags.format, Locale: flags.locale}
		if opts.Locale == "" {
			opts.Locale = deps.Config.Normalize.Locale
		}

		return writeOutput(cmd.OutOrStdout(), flags.output, func(w io.Writer) error {
			result, err := deps.NormalizeHandler.Export(ctx, filePath, opts, exporter, w)
			if err != nil {
				return err
			}
			if flags.output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d locations to %s\n", len(result.Batch.Locations), flags.output)
			}
			return nil
		})
	})
}

// writeOutput runs fn against the output file, or stdout when output is empty.
func writeOutput(stdout io.Writer, output string, fn func(io.Writer) error) (err error) {
	if output == "" {
		return fn(stdout)
	}

	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	return fn(f)
}

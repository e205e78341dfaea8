package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/domain/services"
)

type normalizeFlags struct {
	format    string
	dryRun    bool
	locale    string
	pattern   string
	recursive bool
}

func newNormalizeCmd() *cobra.Command {
	var flags normalizeFlags

	cmd := &cobra.Command{
		Use:   "normalize <file|directory|glob>",
		Short: "Normalize scraped locations into the database",
		Long: "Reads location rows from JSON or CSV, builds service and pet type catalogs,\n" +
			"normalizes business hours and saves everything to SQLite.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Input format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Normalize without saving")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "Period labels (en, zh-TW); defaults to normalize.locale")
	cmd.Flags().StringVarP(&flags.pattern, "pattern", "p", DefaultPattern, "File pattern when a directory is given")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")

	return cmd
}

func runNormalize(cmd *cobra.Command, path string, flags normalizeFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(func(deps *Deps) error {
		opts := handlers.NormalizeOptions{
			Format: flags.format,
			DryRun: flags.dryRun,
			Locale: flags.locale,
		}
		if opts.Locale == "" {
			opts.Locale = deps.Config.Normalize.Locale
		}

		dir, pattern := "", flags.pattern
		switch {
		case handlers.IsGlobPattern(path):
			dir, pattern = filepath.Dir(path), filepath.Base(path)
		case handlers.IsDirectory(path):
			dir = path
		}

		if dir == "" {
			result, err := deps.NormalizeHandler.Handle(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("normalizing %s: %w", path, err)
			}
			printNormalizeResult(out, result.FilePath, result.NormalizeResult, flags.dryRun)
			return nil
		}

		batch, err := deps.NormalizeHandler.HandleDirectory(ctx, dir, pattern, flags.recursive, func(file string) {
			fmt.Fprintf(out, "Normalizing %s...\n", file)
		}, opts)
		if err != nil {
			return err
		}

		for _, fr := range batch.FileResults {
			printNormalizeResult(out, fr.FilePath, fr.NormalizeResult, flags.dryRun)
		}
		for _, ferr := range batch.Errors {
			fmt.Fprintf(out, "  failed: %v\n", ferr)
		}
		fmt.Fprintf(out, "\n%d files, %d locations, %d business hours rows\n",
			batch.TotalFiles, batch.TotalLocations, batch.TotalHours)
		if len(batch.Errors) > 0 {
			return fmt.Errorf("%d of %d files failed", len(batch.Errors), len(batch.Errors)+batch.TotalFiles)
		}
		return nil
	})
}

func printNormalizeResult(w io.Writer, filePath string, result *services.NormalizeResult, dryRun bool) {
	verb := "Saved"
	if dryRun {
		verb = "Validated"
	}

	fmt.Fprintf(w, "%s %d locations from %s\n", verb, len(result.Batch.Locations), filePath)
	fmt.Fprintf(w, "  service types: %d, pet types: %d\n", len(result.Batch.ServiceTypes), len(result.Batch.PetTypes))
	fmt.Fprintf(w, "  business hours: %d rows", len(result.Batch.BusinessHours))
	if !dryRun {
		fmt.Fprintf(w, " (%d new, %d existing)", result.Stats.HoursCreated, result.Stats.HoursExisting)
	}
	fmt.Fprintln(w)

	if result.Skipped() > 0 {
		fmt.Fprintf(w, "  skipped rows: %d\n", result.Skipped())
		for _, e := range result.Errors {
			fmt.Fprintf(w, "    %s\n", e.Error())
		}
	}
	if len(result.Diagnostics) > 0 {
		fmt.Fprintf(w, "  diagnostics: %d (see log)\n", len(result.Diagnostics))
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
	"github.com/hongxu0218/petcare/internal/infrastructure/vectordb/qdrant"
)

func newInitCmd() *cobra.Command {
	var withFAQ bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new petcare project",
		Long: "Creates a .petcare directory with default configuration and the SQLite schema.\n" +
			"With --with-faq the Qdrant collection for the FAQ assistant is created as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, withFAQ)
		},
	}

	cmd.Flags().BoolVar(&withFAQ, "with-faq", false, "Also create the Qdrant FAQ collection")

	return cmd
}

func runInit(cmd *cobra.Command, withFAQ bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	defaults := config.Default()

	var collections ports.CollectionManager
	if withFAQ {
		repo, err := qdrant.NewRepository(defaults.Qdrant)
		if err != nil {
			return fmt.Errorf("connecting to qdrant: %w", err)
		}
		defer repo.Close()
		collections = repo
	}

	initHandler := handlers.NewInitHandler(openStore, collections, uint64(defaults.Embedder.Dimensions))

	result, err := initHandler.Handle(ctx, cwd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Created database %s\n", result.DatabasePath)
	if result.CollectionName != "" {
		fmt.Fprintf(out, "Created Qdrant collection: %s\n", result.CollectionName)
	}
	fmt.Fprintln(out, "Petcare initialized successfully!")

	return nil
}

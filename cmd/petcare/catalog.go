package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/domain/entities"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "catalog [service|pet]",
		Short:     "List stored service and pet types",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: catalogArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var kinds []entities.CatalogKind
			if len(args) == 1 {
				kind, err := parseCatalogKind(args[0])
				if err != nil {
					return err
				}
				kinds = append(kinds, kind)
			}
			return runCatalog(cmd, kinds)
		},
	}
}

func runCatalog(cmd *cobra.Command, kinds []entities.CatalogKind) error {
	ctx := cmd.Context()

	return withDeps(func(deps *Deps) error {
		results, err := deps.LocationHandler.HandleCatalog(ctx, kinds...)
		if err != nil {
			return err
		}
		printCatalogs(cmd.OutOrStdout(), results)
		return nil
	})
}

func printCatalogs(w io.Writer, results []handlers.CatalogResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", r.Kind, len(r.Items))
		for _, item := range r.Items {
			status := ""
			if !item.IsActive {
				status = "  (inactive)"
			}
			fmt.Fprintf(w, "  %3d  %-14s %s%s\n", item.ID, item.Code, item.Name, status)
		}
	}
}

func parseCatalogKind(arg string) (entities.CatalogKind, error) {
	switch arg {
	case "service", "services", string(entities.CatalogServiceTypes):
		return entities.CatalogServiceTypes, nil
	case "pet", "pets", string(entities.CatalogPetTypes):
		return entities.CatalogPetTypes, nil
	default:
		return "", fmt.Errorf("invalid catalog %q, valid catalogs: %v", arg, catalogArgs)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/domain/entities"
)

func newScheduleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schedule <location-id>",
		Short: "Show the stored weekly hours of a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			return runSchedule(cmd, id, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runSchedule(cmd *cobra.Command, id int64, asJSON bool) error {
	ctx := cmd.Context()

	return withDeps(func(deps *Deps) error {
		result, err := deps.LocationHandler.HandleSchedule(ctx, id)
		if err != nil {
			return err
		}

		if asJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		printSchedule(cmd.OutOrStdout(), result)
		return nil
	})
}

func printSchedule(w io.Writer, result *handlers.ScheduleResult) {
	fmt.Fprintf(w, "%d  %s\n", result.Location.ID, result.Location.Name)
	if result.Location.Address != "" {
		fmt.Fprintf(w, "    %s\n", result.Location.Address)
	}
	if len(result.ServiceTypes) > 0 {
		fmt.Fprintf(w, "    services: %s\n", catalogCodes(result.ServiceTypes))
	}
	if len(result.PetTypes) > 0 {
		fmt.Fprintf(w, "    pets: %s\n", catalogCodes(result.PetTypes))
	}
	fmt.Fprintln(w)

	byDay := make(map[entities.Weekday][]string, 7)
	for _, h := range result.Hours {
		byDay[h.DayOfWeek] = append(byDay[h.DayOfWeek], fmt.Sprintf("%s-%s", h.OpenTime, h.CloseTime))
	}
	for d := entities.Monday; d <= entities.Sunday; d++ {
		periods := byDay[d]
		if len(periods) == 0 {
			fmt.Fprintf(w, "  %-9s  -\n", d)
			continue
		}
		fmt.Fprintf(w, "  %-9s  %s\n", d, strings.Join(periods, ", "))
	}
}

func catalogCodes(items []entities.CatalogItem) string {
	codes := make([]string, len(items))
	for i, item := range items {
		codes[i] = item.Code
	}
	return strings.Join(codes, ", ")
}

func parseLocationID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid location id %q", s)
	}
	return id, nil
}

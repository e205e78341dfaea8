package handlers

import (
	"context"
	"fmt"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/ports"
)

// DefaultRunsLimit is the number of import runs listed when no limit is given.
const DefaultRunsLimit = 20

// LocationHandler serves the read and delete side of the location store.
type LocationHandler struct {
	store ports.LocationStore
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(store ports.LocationStore) *LocationHandler {
	return &LocationHandler{
		store: store,
	}
}

// ScheduleResult is one location with its weekly hours and attributes.
type ScheduleResult struct {
	Location     *entities.Location            `json:"location"`
	Hours        []entities.BusinessHoursEntry `json:"business_hours"`
	ServiceTypes []entities.CatalogItem        `json:"service_types"`
	PetTypes     []entities.CatalogItem        `json:"pet_types"`
}

// CatalogResult lists the items of one catalog.
type CatalogResult struct {
	Kind  entities.CatalogKind   `json:"kind"`
	Items []entities.CatalogItem `json:"items"`
}

// HandleSchedule returns the stored schedule and attributes of a location.
func (h *LocationHandler) HandleSchedule(ctx context.Context, locationID int64) (*ScheduleResult, error) {
	loc, err := h.store.FindLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("finding location: %w", err)
	}
	if loc == nil {
		return nil, fmt.Errorf("location %d: %w", locationID, ports.ErrLocationNotFound)
	}

	hoursList, err := h.store.ListBusinessHours(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("listing business hours: %w", err)
	}

	serviceTypes, err := h.store.ListLocationCatalog(ctx, entities.CatalogServiceTypes, locationID)
	if err != nil {
		return nil, fmt.Errorf("listing service types: %w", err)
	}

	petTypes, err := h.store.ListLocationCatalog(ctx, entities.CatalogPetTypes, locationID)
	if err != nil {
		return nil, fmt.Errorf("listing pet types: %w", err)
	}

	return &ScheduleResult{
		Location:     loc,
		Hours:        hoursList,
		ServiceTypes: serviceTypes,
		PetTypes:     petTypes,
	}, nil
}

// HandleCatalog lists the stored items of the given catalogs, or of both when
// kinds is empty.
func (h *LocationHandler) HandleCatalog(ctx context.Context, kinds ...entities.CatalogKind) ([]CatalogResult, error) {
	if len(kinds) == 0 {
		kinds = []entities.CatalogKind{entities.CatalogServiceTypes, entities.CatalogPetTypes}
	}

	results := make([]CatalogResult, 0, len(kinds))
	for _, kind := range kinds {
		if !kind.IsValid() {
			return nil, fmt.Errorf("unknown catalog %q", kind)
		}
		items, err := h.store.ListCatalog(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", kind, err)
		}
		results = append(results, CatalogResult{Kind: kind, Items: items})
	}

	return results, nil
}

// HandleDelete removes a location with its relations and hours.
func (h *LocationHandler) HandleDelete(ctx context.Context, locationID int64) error {
	return h.store.DeleteLocation(ctx, locationID)
}

// HandleCount returns the number of stored locations.
func (h *LocationHandler) HandleCount(ctx context.Context) (int, error) {
	return h.store.CountLocations(ctx)
}

// HandleRuns returns the most recent import runs, newest first.
func (h *LocationHandler) HandleRuns(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	return h.store.FindRuns(ctx, limit)
}

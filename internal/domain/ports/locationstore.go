package ports

import (
	"context"
	"errors"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// ErrLocationNotFound is returned when a location id is not stored.
var ErrLocationNotFound = errors.New("location not found")

// SaveStats reports what a SaveBatch call created and what already existed.
type SaveStats struct {
	Locations        int `json:"locations"`
	CatalogCreated   int `json:"catalog_created"`
	CatalogExisting  int `json:"catalog_existing"`
	RelationsCreated int `json:"relations_created"`
	HoursCreated     int `json:"hours_created"`
	HoursExisting    int `json:"hours_existing"`
}

// LocationStore persists normalized location data.
// Catalog rows are get-or-create by code and business hours rows are
// get-or-create by (location, day, period order), so saving the same batch
// twice changes nothing the second time.
type LocationStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveBatch stores a normalized batch in a single transaction. Catalog ids
	// in the batch are local to it and are remapped to the stored ids.
	SaveBatch(ctx context.Context, batch *entities.NormalizedBatch) (SaveStats, error)

	// FindLocation returns a location by id, or nil if it doesn't exist.
	FindLocation(ctx context.Context, id int64) (*entities.Location, error)

	// ListBusinessHours returns the hours of a location, Monday first and in period order.
	ListBusinessHours(ctx context.Context, locationID int64) ([]entities.BusinessHoursEntry, error)

	// ListCatalog returns the rows of a catalog ordered by id.
	ListCatalog(ctx context.Context, kind entities.CatalogKind) ([]entities.CatalogItem, error)

	// ListLocationCatalog returns the catalog rows a location is linked to.
	ListLocationCatalog(ctx context.Context, kind entities.CatalogKind, locationID int64) ([]entities.CatalogItem, error)

	// CountLocations returns the number of stored locations.
	CountLocations(ctx context.Context) (int, error)

	// DeleteLocation removes a location with its relations and hours, or
	// returns ErrLocationNotFound.
	DeleteLocation(ctx context.Context, id int64) error

	// LogRun records a completed normalization run.
	LogRun(ctx context.Context, run *entities.ImportRun) error

	// FindRuns returns the most recent runs first.
	FindRuns(ctx context.Context, limit int) ([]entities.ImportRun, error)
}

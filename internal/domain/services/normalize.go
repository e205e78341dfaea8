package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/hours"
	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/infrastructure/parsers"
)

// NormalizeOptions controls a normalization run.
type NormalizeOptions struct {
	DryRun     bool         // Build the batch without saving
	SourceFile string       // Recorded with the run
	Labels     hours.Labels // Period names; zero means English
	Catalogs   *Catalogs    // Continue numbering from these catalogs; nil starts fresh
}

// ImportError represents an error for a specific row during normalization.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// NormalizeResult contains the outcome of a normalization run.
type NormalizeResult struct {
	Batch       *entities.NormalizedBatch
	Catalogs    Catalogs
	Diagnostics []hours.Diagnostic
	Errors      []ImportError
	Stats       ports.SaveStats // zero on a dry run
	Run         *entities.ImportRun
}

// Skipped returns the number of rows that were rejected.
func (r *NormalizeResult) Skipped() int { return len(r.Errors) }

// NormalizeService turns scraped location rows into relational rows.
type NormalizeService struct {
	store ports.LocationStore
	now   func() time.Time
}

// NewNormalizeService creates a new normalize service. store may be nil when
// the service is only used for dry runs and exports.
func NewNormalizeService(store ports.LocationStore) *NormalizeService {
	return &NormalizeService{store: store, now: time.Now}
}

// Normalize validates the rows, builds catalogs, relations and business hours,
// and saves the batch unless opts.DryRun is set. Row and schedule problems are
// reported in the result; only storage failures return an error.
func (s *NormalizeService) Normalize(ctx context.Context, raws []parsers.RawLocation, opts NormalizeOptions) (*NormalizeResult, error) {
	valid, rowErrors := validateLocations(raws)

	catalogs := NewCatalogs()
	if opts.Catalogs != nil {
		catalogs = *opts.Catalogs
	}

	batch, diags := BuildBatch(valid, catalogs, hours.NewBuilder(opts.Labels))
	result := &NormalizeResult{
		Batch:       batch,
		Catalogs:    catalogs,
		Diagnostics: diags,
		Errors:      rowErrors,
	}

	if opts.DryRun || len(valid) == 0 {
		return result, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("no location store configured")
	}

	stats, err := s.store.SaveBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("saving batch: %w", err)
	}
	result.Stats = stats

	run := &entities.ImportRun{
		ID:            uuid.New().String(),
		SourceFile:    opts.SourceFile,
		Locations:     stats.Locations,
		HoursCreated:  stats.HoursCreated,
		HoursExisting: stats.HoursExisting,
		Diagnostics:   len(diags),
		CreatedAt:     s.now(),
	}
	if err := s.store.LogRun(ctx, run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}
	result.Run = run

	return result, nil
}

// BuildBatch is the pure part of a run: it registers flags in the catalogs,
// links locations to them and builds every schedule. Relations are
// deduplicated per location, so aliased flag columns add a single row.
func BuildBatch(raws []parsers.RawLocation, catalogs Catalogs, builder *hours.Builder) (*entities.NormalizedBatch, []hours.Diagnostic) {
	batch := &entities.NormalizedBatch{
		Locations:        make([]entities.Location, 0, len(raws)),
		ServiceRelations: []entities.CatalogRelation{},
		PetRelations:     []entities.CatalogRelation{},
		BusinessHours:    []entities.BusinessHoursEntry{},
	}
	var diags []hours.Diagnostic

	for i := range raws {
		raw := &raws[i]
		batch.Locations = append(batch.Locations, entities.Location{
			ID:      raw.ID,
			Name:    raw.Name,
			Address: raw.Address,
			Phone:   raw.Phone,
		})

		batch.ServiceRelations = appendRelations(batch.ServiceRelations, raw, catalogs.Services)
		batch.PetRelations = appendRelations(batch.PetRelations, raw, catalogs.Pets)

		entries, d := builder.BuildFromBlob(raw.ID, raw.BusinessHours)
		batch.BusinessHours = append(batch.BusinessHours, entries...)
		diags = append(diags, d...)
	}

	batch.ServiceTypes = catalogs.Services.Items()
	batch.PetTypes = catalogs.Pets.Items()

	return batch, diags
}

func appendRelations(rels []entities.CatalogRelation, raw *parsers.RawLocation, catalog *Catalog) []entities.CatalogRelation {
	seen := make(map[int64]bool)
	for _, col := range entities.FlagColumnsFor(catalog.Kind()) {
		if !raw.Flags[col.Column] {
			continue
		}
		item := catalog.Register(col.Code, col.Name)
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		rels = append(rels, entities.CatalogRelation{LocationID: raw.ID, CatalogID: item.ID})
	}
	return rels
}

// validateLocations returns the rows with a usable id, in input order.
func validateLocations(raws []parsers.RawLocation) ([]parsers.RawLocation, []ImportError) {
	valid := make([]parsers.RawLocation, 0, len(raws))
	var errs []ImportError
	firstLine := make(map[int64]int, len(raws))

	for i := range raws {
		raw := raws[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		if raw.ID <= 0 {
			errs = append(errs, ImportError{
				Line:    lineNum,
				Field:   "id",
				Value:   fmt.Sprintf("%d", raw.ID),
				Message: "missing required field: id",
			})
			continue
		}
		if first, ok := firstLine[raw.ID]; ok {
			errs = append(errs, ImportError{
				Line:    lineNum,
				Field:   "id",
				Value:   fmt.Sprintf("%d", raw.ID),
				Message: fmt.Sprintf("duplicate id %d (first seen on line %d)", raw.ID, first),
			})
			continue
		}
		firstLine[raw.ID] = lineNum
		valid = append(valid, raw)
	}

	return valid, errs
}

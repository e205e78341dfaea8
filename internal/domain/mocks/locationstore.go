package mocks

import (
	"context"
	"sort"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/ports"
)

type hoursKey struct {
	location int64
	day      entities.Weekday
	order    int
}

// LocationStore is an in-memory implementation of ports.LocationStore with the
// same get-or-create semantics as the SQLite repository.
type LocationStore struct {
	Locations map[int64]entities.Location
	Catalogs  map[entities.CatalogKind][]entities.CatalogItem
	Relations map[entities.CatalogKind]map[entities.CatalogRelation]bool
	Hours     map[hoursKey]entities.BusinessHoursEntry
	Runs      []entities.ImportRun
	Err       error

	// Call tracking
	SaveBatchCallCount int
	LogRunCallCount    int
}

// NewLocationStore creates a new mock LocationStore.
func NewLocationStore() *LocationStore {
	return &LocationStore{
		Locations: make(map[int64]entities.Location),
		Catalogs:  make(map[entities.CatalogKind][]entities.CatalogItem),
		Relations: map[entities.CatalogKind]map[entities.CatalogRelation]bool{
			entities.CatalogServiceTypes: {},
			entities.CatalogPetTypes:     {},
		},
		Hours: make(map[hoursKey]entities.BusinessHoursEntry),
	}
}

// EnsureSchema returns the configured error.
func (m *LocationStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the store.
func (m *LocationStore) Close() error {
	return nil
}

// SaveBatch stores the batch.
func (m *LocationStore) SaveBatch(_ context.Context, batch *entities.NormalizedBatch) (ports.SaveStats, error) {
	m.SaveBatchCallCount++
	var stats ports.SaveStats
	if m.Err != nil {
		return stats, m.Err
	}

	for _, loc := range batch.Locations {
		m.Locations[loc.ID] = loc
		stats.Locations++
	}

	remap := func(kind entities.CatalogKind, items []entities.CatalogItem) map[int64]int64 {
		ids := make(map[int64]int64, len(items))
		for _, item := range items {
			stored, created := m.getOrCreate(kind, item)
			if created {
				stats.CatalogCreated++
			} else {
				stats.CatalogExisting++
			}
			ids[item.ID] = stored
		}
		return ids
	}
	link := func(kind entities.CatalogKind, rels []entities.CatalogRelation, ids map[int64]int64) {
		for _, rel := range rels {
			r := entities.CatalogRelation{LocationID: rel.LocationID, CatalogID: ids[rel.CatalogID]}
			if !m.Relations[kind][r] {
				m.Relations[kind][r] = true
				stats.RelationsCreated++
			}
		}
	}

	link(entities.CatalogServiceTypes, batch.ServiceRelations, remap(entities.CatalogServiceTypes, batch.ServiceTypes))
	link(entities.CatalogPetTypes, batch.PetRelations, remap(entities.CatalogPetTypes, batch.PetTypes))

	for _, e := range batch.BusinessHours {
		key := hoursKey{e.LocationID, e.DayOfWeek, e.PeriodOrder}
		if _, ok := m.Hours[key]; ok {
			stats.HoursExisting++
			continue
		}
		m.Hours[key] = e
		stats.HoursCreated++
	}

	return stats, nil
}

func (m *LocationStore) getOrCreate(kind entities.CatalogKind, item entities.CatalogItem) (int64, bool) {
	for _, existing := range m.Catalogs[kind] {
		if existing.Code == item.Code {
			return existing.ID, false
		}
	}
	item.ID = int64(len(m.Catalogs[kind]) + 1)
	m.Catalogs[kind] = append(m.Catalogs[kind], item)
	return item.ID, true
}

// FindLocation returns a location by id, or nil.
func (m *LocationStore) FindLocation(_ context.Context, id int64) (*entities.Location, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	loc, ok := m.Locations[id]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

// ListBusinessHours returns the hours of a location in day and period order.
func (m *LocationStore) ListBusinessHours(_ context.Context, locationID int64) ([]entities.BusinessHoursEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.BusinessHoursEntry
	for _, e := range m.Hours {
		if e.LocationID == locationID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].PeriodOrder < out[j].PeriodOrder
	})
	return out, nil
}

// ListCatalog returns the catalog rows ordered by id.
func (m *LocationStore) ListCatalog(_ context.Context, kind entities.CatalogKind) ([]entities.CatalogItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]entities.CatalogItem(nil), m.Catalogs[kind]...), nil
}

// ListLocationCatalog returns the catalog rows linked to a location.
func (m *LocationStore) ListLocationCatalog(_ context.Context, kind entities.CatalogKind, locationID int64) ([]entities.CatalogItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.CatalogItem
	for _, item := range m.Catalogs[kind] {
		if m.Relations[kind][entities.CatalogRelation{LocationID: locationID, CatalogID: item.ID}] {
			out = append(out, item)
		}
	}
	return out, nil
}

// CountLocations returns the number of stored locations.
func (m *LocationStore) CountLocations(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Locations), nil
}

// DeleteLocation removes a location and everything attached to it.
func (m *LocationStore) DeleteLocation(_ context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Locations[id]; !ok {
		return ports.ErrLocationNotFound
	}
	delete(m.Locations, id)
	for _, rels := range m.Relations {
		for r := range rels {
			if r.LocationID == id {
				delete(rels, r)
			}
		}
	}
	for k := range m.Hours {
		if k.location == id {
			delete(m.Hours, k)
		}
	}
	return nil
}

// LogRun records a run.
func (m *LocationStore) LogRun(_ context.Context, run *entities.ImportRun) error {
	m.LogRunCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, *run)
	return nil
}

// FindRuns returns the most recent runs first.
func (m *LocationStore) FindRuns(_ context.Context, limit int) ([]entities.ImportRun, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.ImportRun
	for i := len(m.Runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Runs[i])
	}
	return out, nil
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func sampleBatch() *entities.NormalizedBatch {
	return &entities.NormalizedBatch{
		Locations: []entities.Location{
			{ID: 100, Name: "Happy Paws", Address: "台北市大安區", Phone: "02-1234-5678"},
			{ID: 200, Name: "Cat Corner"},
		},
		ServiceTypes: []entities.CatalogItem{
			{ID: 1, Code: "veterinary", Name: "動物醫院", IsActive: true},
			{ID: 2, Code: "grooming", Name: "寵物美容", IsActive: true},
		},
		PetTypes: []entities.CatalogItem{
			{ID: 1, Code: "cat", Name: "貓", IsActive: true},
		},
		ServiceRelations: []entities.CatalogRelation{
			{LocationID: 100, CatalogID: 1},
			{LocationID: 100, CatalogID: 2},
			{LocationID: 200, CatalogID: 2},
		},
		PetRelations: []entities.CatalogRelation{
			{LocationID: 200, CatalogID: 1},
		},
		BusinessHours: []entities.BusinessHoursEntry{
			{LocationID: 100, DayOfWeek: entities.Wednesday, OpenTime: "13:00", CloseTime: "18:00", PeriodOrder: 2, PeriodName: "Period 2"},
			{LocationID: 100, DayOfWeek: entities.Monday, OpenTime: "09:00", CloseTime: "18:00", PeriodOrder: 1, PeriodName: "Full day"},
			{LocationID: 100, DayOfWeek: entities.Wednesday, OpenTime: "09:00", CloseTime: "12:00", PeriodOrder: 1, PeriodName: "Period 1"},
			{LocationID: 200, DayOfWeek: entities.Sunday, OpenTime: "00:00", CloseTime: "23:59", PeriodOrder: 1, PeriodName: "Full day"},
		},
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	tables := []string{
		"locations", "service_types", "pet_types",
		"location_service_types", "location_pet_types",
		"business_hours", "import_runs",
	}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_SaveBatch(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	stats, err := repo.SaveBatch(ctx, sampleBatch())

	require.NoError(t, err)
	assert.Equal(t, ports.SaveStats{
		Locations:        2,
		CatalogCreated:   3,
		RelationsCreated: 4,
		HoursCreated:     4,
	}, stats)

	count, err := repo.CountLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	loc, err := repo.FindLocation(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Happy Paws", loc.Name)
	assert.Equal(t, "台北市大安區", loc.Address)
}

func TestRepository_SaveBatch_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)
	stats, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Locations)
	assert.Equal(t, 0, stats.CatalogCreated)
	assert.Equal(t, 3, stats.CatalogExisting)
	assert.Equal(t, 0, stats.RelationsCreated)
	assert.Equal(t, 0, stats.HoursCreated)
	assert.Equal(t, 4, stats.HoursExisting)

	var rows int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM business_hours`).Scan(&rows))
	assert.Equal(t, 4, rows)
}

func TestRepository_SaveBatch_ExistingHoursAreKept(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)

	changed := sampleBatch()
	changed.BusinessHours[1].CloseTime = "20:00"
	_, err = repo.SaveBatch(ctx, changed)
	require.NoError(t, err)

	hours, err := repo.ListBusinessHours(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, entities.CanonicalTime("18:00"), hours[0].CloseTime)
}

func TestRepository_SaveBatch_RemapsCatalogIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)

	// A later run numbers its catalog from 1 again; "grooming" must resolve to stored id 2.
	next := &entities.NormalizedBatch{
		Locations:        []entities.Location{{ID: 300, Name: "Groom Room"}},
		ServiceTypes:     []entities.CatalogItem{{ID: 1, Code: "grooming", Name: "寵物美容", IsActive: true}},
		ServiceRelations: []entities.CatalogRelation{{LocationID: 300, CatalogID: 1}},
	}
	_, err = repo.SaveBatch(ctx, next)
	require.NoError(t, err)

	items, err := repo.ListLocationCatalog(ctx, entities.CatalogServiceTypes, 300)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, "grooming", items[0].Code)
}

func TestRepository_SaveBatch_RollsBackOnError(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	batch := sampleBatch()
	batch.ServiceRelations = append(batch.ServiceRelations, entities.CatalogRelation{LocationID: 100, CatalogID: 99})

	_, err := repo.SaveBatch(ctx, batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service_types id 99")

	count, err := repo.CountLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRepository_ListBusinessHours_Order(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)

	hours, err := repo.ListBusinessHours(ctx, 100)

	require.NoError(t, err)
	require.Len(t, hours, 3)
	assert.Equal(t, entities.Monday, hours[0].DayOfWeek)
	assert.Equal(t, entities.Wednesday, hours[1].DayOfWeek)
	assert.Equal(t, 1, hours[1].PeriodOrder)
	assert.Equal(t, entities.CanonicalTime("09:00"), hours[1].OpenTime)
	assert.Equal(t, 2, hours[2].PeriodOrder)
	assert.Equal(t, "Period 2", hours[2].PeriodName)

	none, err := repo.ListBusinessHours(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_ListCatalog(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)

	services, err := repo.ListCatalog(ctx, entities.CatalogServiceTypes)
	require.NoError(t, err)
	assert.Equal(t, []entities.CatalogItem{
		{ID: 1, Code: "veterinary", Name: "動物醫院", IsActive: true},
		{ID: 2, Code: "grooming", Name: "寵物美容", IsActive: true},
	}, services)

	pets, err := repo.ListLocationCatalog(ctx, entities.CatalogPetTypes, 200)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "cat", pets[0].Code)

	_, err = repo.ListCatalog(ctx, "colors")
	require.Error(t, err)
}

func TestRepository_FindLocation_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	loc, err := repo.FindLocation(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestRepository_DeleteLocation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, err := repo.SaveBatch(ctx, sampleBatch())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteLocation(ctx, 100))

	loc, err := repo.FindLocation(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, loc)

	hours, err := repo.ListBusinessHours(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, hours)

	items, err := repo.ListLocationCatalog(ctx, entities.CatalogServiceTypes, 100)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Catalog rows are shared and survive.
	services, err := repo.ListCatalog(ctx, entities.CatalogServiceTypes)
	require.NoError(t, err)
	assert.Len(t, services, 2)

	err = repo.DeleteLocation(ctx, 100)
	assert.ErrorIs(t, err, ports.ErrLocationNotFound)
}

func TestRepository_Runs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		err := repo.LogRun(ctx, &entities.ImportRun{
			ID:           id,
			SourceFile:   "shops.json",
			Locations:    i + 1,
			HoursCreated: 7,
			Diagnostics:  i,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	runs, err := repo.FindRuns(ctx, 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, 3, runs[0].Locations)
	assert.Equal(t, 2, runs[0].Diagnostics)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(2*time.Hour)))
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestRepository_LogRun_DefaultsCreatedAt(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	require.NoError(t, repo.LogRun(ctx, &entities.ImportRun{ID: "r"}))

	runs, err := repo.FindRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].CreatedAt.Equal(fixed))
}

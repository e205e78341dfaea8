package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/mocks"
	"github.com/hongxu0218/petcare/internal/domain/ports"
)

func seededStore(t *testing.T) *mocks.LocationStore {
	t.Helper()
	store := mocks.NewLocationStore()
	_, err := store.SaveBatch(t.Context(), &entities.NormalizedBatch{
		Locations:        []entities.Location{{ID: 1, Name: "Happy Paws"}, {ID: 2, Name: "Night Vet"}},
		ServiceTypes:     []entities.CatalogItem{{ID: 1, Code: "grooming", Name: "寵物美容", IsActive: true}},
		PetTypes:         []entities.CatalogItem{{ID: 1, Code: "dog", Name: "狗", IsActive: true}},
		ServiceRelations: []entities.CatalogRelation{{LocationID: 1, CatalogID: 1}},
		PetRelations:     []entities.CatalogRelation{{LocationID: 1, CatalogID: 1}},
		BusinessHours: []entities.BusinessHoursEntry{
			{LocationID: 1, DayOfWeek: entities.Tuesday, OpenTime: "09:00", CloseTime: "18:00", PeriodOrder: 1, PeriodName: "Full day"},
			{LocationID: 1, DayOfWeek: entities.Monday, OpenTime: "14:00", CloseTime: "18:00", PeriodOrder: 2, PeriodName: "Period 2"},
			{LocationID: 1, DayOfWeek: entities.Monday, OpenTime: "09:00", CloseTime: "12:00", PeriodOrder: 1, PeriodName: "Period 1"},
		},
	})
	require.NoError(t, err)
	return store
}

func TestLocationHandler_HandleSchedule(t *testing.T) {
	handler := NewLocationHandler(seededStore(t))

	result, err := handler.HandleSchedule(t.Context(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Happy Paws", result.Location.Name)
	require.Len(t, result.Hours, 3)
	assert.Equal(t, "Period 1", result.Hours[0].PeriodName)
	assert.Equal(t, "Period 2", result.Hours[1].PeriodName)
	assert.Equal(t, entities.Tuesday, result.Hours[2].DayOfWeek)
	require.Len(t, result.ServiceTypes, 1)
	assert.Equal(t, "grooming", result.ServiceTypes[0].Code)
	require.Len(t, result.PetTypes, 1)
	assert.Equal(t, "dog", result.PetTypes[0].Code)
}

func TestLocationHandler_HandleSchedule_NotFound(t *testing.T) {
	handler := NewLocationHandler(seededStore(t))

	_, err := handler.HandleSchedule(t.Context(), 99)

	require.ErrorIs(t, err, ports.ErrLocationNotFound)
}

func TestLocationHandler_HandleSchedule_StoreError(t *testing.T) {
	store := mocks.NewLocationStore()
	store.Err = errors.New("db closed")

	_, err := NewLocationHandler(store).HandleSchedule(t.Context(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "finding location")
}

func TestLocationHandler_HandleCatalog(t *testing.T) {
	handler := NewLocationHandler(seededStore(t))

	all, err := handler.HandleCatalog(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, entities.CatalogServiceTypes, all[0].Kind)
	assert.Equal(t, entities.CatalogPetTypes, all[1].Kind)

	pets, err := handler.HandleCatalog(t.Context(), entities.CatalogPetTypes)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "dog", pets[0].Items[0].Code)

	_, err = handler.HandleCatalog(t.Context(), entities.CatalogKind("toys"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown catalog")
}

func TestLocationHandler_HandleDelete(t *testing.T) {
	store := seededStore(t)
	handler := NewLocationHandler(store)

	require.NoError(t, handler.HandleDelete(t.Context(), 1))

	count, err := handler.HandleCount(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hoursList, err := store.ListBusinessHours(t.Context(), 1)
	require.NoError(t, err)
	assert.Empty(t, hoursList)

	err = handler.HandleDelete(t.Context(), 1)
	require.ErrorIs(t, err, ports.ErrLocationNotFound)
}

func TestLocationHandler_HandleRuns(t *testing.T) {
	store := mocks.NewLocationStore()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.LogRun(t.Context(), &entities.ImportRun{ID: id}))
	}
	handler := NewLocationHandler(store)

	runs, err := handler.HandleRuns(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)

	runs, err = handler.HandleRuns(t.Context(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

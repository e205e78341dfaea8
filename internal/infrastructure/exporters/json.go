package exporters

import (
	"encoding/json"
	"io"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// JSONExporter writes the batch as one indented JSON document.
type JSONExporter struct{}

type jsonDocument struct {
	Locations        []entities.Location           `json:"locations"`
	ServiceTypes     []entities.CatalogItem        `json:"service_types"`
	PetTypes         []entities.CatalogItem        `json:"pet_types"`
	ServiceRelations []entities.CatalogRelation    `json:"location_service_types"`
	PetRelations     []entities.CatalogRelation    `json:"location_pet_types"`
	BusinessHours    []entities.BusinessHoursEntry `json:"business_hours"`
	Diagnostics      int                           `json:"diagnostics"`
}

// Export implements Exporter. Empty sections are written as [] rather than null.
func (e *JSONExporter) Export(w io.Writer, batch *entities.NormalizedBatch, diagnostics int) error {
	doc := jsonDocument{
		Locations:        nonNil(batch.Locations),
		ServiceTypes:     nonNil(batch.ServiceTypes),
		PetTypes:         nonNil(batch.PetTypes),
		ServiceRelations: nonNil(batch.ServiceRelations),
		PetRelations:     nonNil(batch.PetRelations),
		BusinessHours:    nonNil(batch.BusinessHours),
		Diagnostics:      diagnostics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

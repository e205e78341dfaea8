package entities

// CatalogKind identifies one of the attribute catalogs.
type CatalogKind string

const (
	CatalogServiceTypes CatalogKind = "service_types"
	CatalogPetTypes     CatalogKind = "pet_types"
)

// IsValid reports whether k is a known catalog.
func (k CatalogKind) IsValid() bool {
	return k == CatalogServiceTypes || k == CatalogPetTypes
}

// CatalogItem is a deduplicated lookup row such as a service type or a pet type.
type CatalogItem struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// CatalogRelation records that a location belongs to a catalog item.
type CatalogRelation struct {
	LocationID int64 `json:"location_id"`
	CatalogID  int64 `json:"catalog_id"`
}

// NormalizedBatch is the in-memory output of one normalization pass.
type NormalizedBatch struct {
	Locations        []Location           `json:"locations"`
	ServiceTypes     []CatalogItem        `json:"service_types"`
	PetTypes         []CatalogItem        `json:"pet_types"`
	ServiceRelations []CatalogRelation    `json:"location_service_types"`
	PetRelations     []CatalogRelation    `json:"location_pet_types"`
	BusinessHours    []BusinessHoursEntry `json:"business_hours"`
}

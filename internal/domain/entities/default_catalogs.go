package entities

// FlagColumn maps a boolean source column of the scraped data to a catalog entry.
// Several columns may share a code; the catalog keeps the first name seen.
type FlagColumn struct {
	Column string
	Code   string
	Name   string
}

// ServiceTypeColumns are the service-type flags produced by the scraper.
var ServiceTypeColumns = []FlagColumn{
	{Column: "is_veterinary", Code: "veterinary", Name: "動物醫院"},
	{Column: "is_grooming", Code: "grooming", Name: "寵物美容"},
	{Column: "is_boarding", Code: "boarding", Name: "寵物住宿"},
	{Column: "is_daycare", Code: "daycare", Name: "寵物安親"},
	{Column: "is_training", Code: "training", Name: "寵物訓練"},
	{Column: "is_pet_supplies", Code: "pet_supplies", Name: "寵物用品"},
	{Column: "is_pet_friendly", Code: "pet_friendly", Name: "寵物友善"},
	{Column: "is_shelter", Code: "shelter", Name: "動物收容所"},
	// Aliases emitted by older scraper runs.
	{Column: "is_clinic", Code: "veterinary", Name: "動物醫院"},
	{Column: "is_hotel", Code: "boarding", Name: "寵物住宿"},
}

// PetTypeColumns are the pet-type support flags produced by the scraper.
var PetTypeColumns = []FlagColumn{
	{Column: "supports_dog", Code: "dog", Name: "狗"},
	{Column: "supports_cat", Code: "cat", Name: "貓"},
	{Column: "supports_rabbit", Code: "rabbit", Name: "兔"},
	{Column: "supports_bird", Code: "bird", Name: "鳥"},
	{Column: "supports_hamster", Code: "hamster", Name: "倉鼠"},
	{Column: "supports_reptile", Code: "reptile", Name: "爬蟲"},
	{Column: "supports_fish", Code: "fish", Name: "魚"},
	{Column: "supports_other", Code: "other", Name: "其他"},
}

// FlagColumnsFor returns the column table feeding the given catalog.
func FlagColumnsFor(kind CatalogKind) []FlagColumn {
	switch kind {
	case CatalogServiceTypes:
		return ServiceTypeColumns
	case CatalogPetTypes:
		return PetTypeColumns
	default:
		return nil
	}
}

// IsFlagColumn checks if a column name is one of the known flag columns.
func IsFlagColumn(name string) bool {
	for _, cols := range [][]FlagColumn{ServiceTypeColumns, PetTypeColumns} {
		for _, c := range cols {
			if c.Column == name {
				return true
			}
		}
	}
	return false
}

package services

import "github.com/hongxu0218/petcare/internal/domain/entities"

// Catalog deduplicates attribute codes within one normalization run and
// assigns ids in first-seen order starting at 1. A Catalog belongs to a single
// run and is not safe for concurrent use.
type Catalog struct {
	kind  entities.CatalogKind
	items []entities.CatalogItem
	index map[string]int
}

// NewCatalog creates an empty catalog of the given kind.
func NewCatalog(kind entities.CatalogKind) *Catalog {
	return &Catalog{kind: kind, index: make(map[string]int)}
}

// Kind returns the catalog kind.
func (c *Catalog) Kind() entities.CatalogKind { return c.kind }

// Register returns the item for code, creating it on first sight. The name of
// an existing item is never overwritten.
func (c *Catalog) Register(code, name string) entities.CatalogItem {
	if i, ok := c.index[code]; ok {
		return c.items[i]
	}
	item := entities.CatalogItem{
		ID:       int64(len(c.items) + 1),
		Code:     code,
		Name:     name,
		IsActive: true,
	}
	c.index[code] = len(c.items)
	c.items = append(c.items, item)
	return item
}

// Lookup returns the item registered for code.
func (c *Catalog) Lookup(code string) (entities.CatalogItem, bool) {
	i, ok := c.index[code]
	if !ok {
		return entities.CatalogItem{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the registered items in id order.
func (c *Catalog) Items() []entities.CatalogItem {
	return append([]entities.CatalogItem(nil), c.items...)
}

// Len returns the number of registered items.
func (c *Catalog) Len() int { return len(c.items) }

// Catalogs groups the catalogs of one run.
type Catalogs struct {
	Services *Catalog
	Pets     *Catalog
}

// NewCatalogs creates empty service-type and pet-type catalogs.
func NewCatalogs() Catalogs {
	return Catalogs{
		Services: NewCatalog(entities.CatalogServiceTypes),
		Pets:     NewCatalog(entities.CatalogPetTypes),
	}
}

// For returns the catalog of the given kind, or nil.
func (c Catalogs) For(kind entities.CatalogKind) *Catalog {
	switch kind {
	case entities.CatalogServiceTypes:
		return c.Services
	case entities.CatalogPetTypes:
		return c.Pets
	default:
		return nil
	}
}

package exporters

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// SQLExporter writes the batch as INSERT statements in foreign key order,
// wrapped in a single transaction.
type SQLExporter struct{}

// Export implements Exporter.
func (e *SQLExporter) Export(w io.Writer, batch *entities.NormalizedBatch, diagnostics int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "-- %d locations, %d business hours rows, %d diagnostics\n",
		len(batch.Locations), len(batch.BusinessHours), diagnostics)
	fmt.Fprintln(bw, "BEGIN;")

	for _, loc := range batch.Locations {
		fmt.Fprintf(bw, "INSERT INTO locations (id, name, address, phone) VALUES (%d, %s, %s, %s);\n",
			loc.ID, quote(loc.Name), quote(loc.Address), quote(loc.Phone))
	}
	writeCatalog(bw, "service_types", batch.ServiceTypes)
	writeCatalog(bw, "pet_types", batch.PetTypes)
	writeRelations(bw, "location_service_types", "service_type_id", batch.ServiceRelations)
	writeRelations(bw, "location_pet_types", "pet_type_id", batch.PetRelations)

	for _, h := range batch.BusinessHours {
		fmt.Fprintf(bw, "INSERT INTO business_hours (location_id, day_of_week, open_time, close_time, period_order, period_name) VALUES (%d, %d, %s, %s, %d, %s);\n",
			h.LocationID, int(h.DayOfWeek), quote(string(h.OpenTime)), quote(string(h.CloseTime)), h.PeriodOrder, quote(h.PeriodName))
	}

	fmt.Fprintln(bw, "COMMIT;")
	return bw.Flush()
}

func writeCatalog(w io.Writer, table string, items []entities.CatalogItem) {
	for _, item := range items {
		active := 0
		if item.IsActive {
			active = 1
		}
		fmt.Fprintf(w, "INSERT INTO %s (id, code, name, is_active) VALUES (%d, %s, %s, %d);\n",
			table, item.ID, quote(item.Code), quote(item.Name), active)
	}
}

func writeRelations(w io.Writer, table, column string, rels []entities.CatalogRelation) {
	for _, rel := range rels {
		fmt.Fprintf(w, "INSERT INTO %s (location_id, %s) VALUES (%d, %d);\n",
			table, column, rel.LocationID, rel.CatalogID)
	}
}

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

package exporters

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// CSVExporter writes the business hours table, one row per period.
type CSVExporter struct{}

// Export implements Exporter. Catalogs and diagnostics are not part of the output.
func (e *CSVExporter) Export(w io.Writer, batch *entities.NormalizedBatch, _ int) error {
	writer := csv.NewWriter(w)

	header := []string{"location_id", "day_of_week", "day", "open_time", "close_time", "period_order", "period_name"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, h := range batch.BusinessHours {
		row := []string{
			strconv.FormatInt(h.LocationID, 10),
			strconv.Itoa(int(h.DayOfWeek)),
			h.DayOfWeek.String(),
			string(h.OpenTime),
			string(h.CloseTime),
			strconv.Itoa(h.PeriodOrder),
			h.PeriodName,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

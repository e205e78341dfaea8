package entities

import "time"

// ImportRun records one persisted normalization pass.
type ImportRun struct {
	ID            string    `json:"id"`
	SourceFile    string    `json:"source_file"`
	Locations     int       `json:"locations"`
	HoursCreated  int       `json:"hours_created"`
	HoursExisting int       `json:"hours_existing"`
	Diagnostics   int       `json:"diagnostics"`
	CreatedAt     time.Time `json:"created_at"`
}

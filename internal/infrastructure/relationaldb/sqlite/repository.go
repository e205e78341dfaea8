// Package sqlite provides a SQLite implementation of the LocationStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// catalogTable names the lookup and join tables backing a catalog kind.
type catalogTable struct {
	table    string // e.g. service_types
	relation string // e.g. location_service_types
	column   string // foreign key column in relation
}

var catalogTables = map[entities.CatalogKind]catalogTable{
	entities.CatalogServiceTypes: {table: "service_types", relation: "location_service_types", column: "service_type_id"},
	entities.CatalogPetTypes:     {table: "pet_types", relation: "location_pet_types", column: "pet_type_id"},
}

func tableFor(kind entities.CatalogKind) (catalogTable, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return catalogTable{}, fmt.Errorf("unknown catalog %q", kind)
	}
	return t, nil
}

// Repository implements ports.LocationStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection keeps per-connection pragmas and :memory: databases consistent.
	db.SetMaxOpenConns(1)

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Attribute catalogs, deduplicated by code
	CREATE TABLE IF NOT EXISTS service_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	CREATE TABLE IF NOT EXISTS pet_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS location_service_types (
		location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		service_type_id INTEGER NOT NULL REFERENCES service_types(id),
		PRIMARY KEY (location_id, service_type_id)
	);
	CREATE TABLE IF NOT EXISTS location_pet_types (
		location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		pet_type_id INTEGER NOT NULL REFERENCES pet_types(id),
		PRIMARY KEY (location_id, pet_type_id)
	);

	-- One row per opening period; a location has at most one row per (day, period)
	CREATE TABLE IF NOT EXISTS business_hours (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		open_time TEXT NOT NULL,
		close_time TEXT NOT NULL,
		period_order INTEGER NOT NULL,
		period_name TEXT NOT NULL,
		UNIQUE(location_id, day_of_week, period_order)
	);
	CREATE INDEX IF NOT EXISTS idx_business_hours_location ON business_hours(location_id);

	-- Normalization runs
	CREATE TABLE IF NOT EXISTS import_runs (
		id TEXT PRIMARY KEY,
		source_file TEXT NOT NULL DEFAULT '',
		locations INTEGER NOT NULL,
		hours_created INTEGER NOT NULL,
		hours_existing INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_import_runs_created ON import_runs(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveBatch stores a normalized batch in a single transaction.
func (r *Repository) SaveBatch(ctx context.Context, batch *entities.NormalizedBatch) (ports.SaveStats, error) {
	var stats ports.SaveStats

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := saveLocations(ctx, tx, batch.Locations, &stats); err != nil {
		return ports.SaveStats{}, err
	}

	catalogs := []struct {
		kind      entities.CatalogKind
		items     []entities.CatalogItem
		relations []entities.CatalogRelation
	}{
		{entities.CatalogServiceTypes, batch.ServiceTypes, batch.ServiceRelations},
		{entities.CatalogPetTypes, batch.PetTypes, batch.PetRelations},
	}
	for _, c := range catalogs {
		ids, err := saveCatalog(ctx, tx, c.kind, c.items, &stats)
		if err != nil {
			return ports.SaveStats{}, err
		}
		if err := saveRelations(ctx, tx, c.kind, c.relations, ids, &stats); err != nil {
			return ports.SaveStats{}, err
		}
	}

	if err := saveHours(ctx, tx, batch.BusinessHours, &stats); err != nil {
		return ports.SaveStats{}, err
	}

	if err := tx.Commit(); err != nil {
		return ports.SaveStats{}, fmt.Errorf("committing batch: %w", err)
	}
	return stats, nil
}

func saveLocations(ctx context.Context, tx *sql.Tx, locations []entities.Location, stats *ports.SaveStats) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO locations (id, name, address, phone, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			phone = excluded.phone,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing location insert: %w", err)
	}
	defer stmt.Close()

	now := timeNow()
	for _, loc := range locations {
		if _, err := stmt.ExecContext(ctx, loc.ID, loc.Name, loc.Address, loc.Phone, now); err != nil {
			return fmt.Errorf("saving location %d: %w", loc.ID, err)
		}
		stats.Locations++
	}
	return nil
}

// saveCatalog gets or creates each item by code and returns batch id -> stored id.
func saveCatalog(ctx context.Context, tx *sql.Tx, kind entities.CatalogKind, items []entities.CatalogItem, stats *ports.SaveStats) (map[int64]int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT OR IGNORE INTO %s (code, name, is_active) VALUES (?, ?, ?)`, t.table))
	if err != nil {
		return nil, fmt.Errorf("preparing %s insert: %w", t.table, err)
	}
	defer insert.Close()

	lookup, err := tx.PrepareContext(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE code = ?`, t.table))
	if err != nil {
		return nil, fmt.Errorf("preparing %s lookup: %w", t.table, err)
	}
	defer lookup.Close()

	ids := make(map[int64]int64, len(items))
	for _, item := range items {
		res, err := insert.ExecContext(ctx, item.Code, item.Name, item.IsActive)
		if err != nil {
			return nil, fmt.Errorf("saving %s %q: %w", t.table, item.Code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.CatalogCreated++
		} else {
			stats.CatalogExisting++
		}

		var stored int64
		if err := lookup.QueryRowContext(ctx, item.Code).Scan(&stored); err != nil {
			return nil, fmt.Errorf("looking up %s %q: %w", t.table, item.Code, err)
		}
		ids[item.ID] = stored
	}
	return ids, nil
}

func saveRelations(ctx context.Context, tx *sql.Tx, kind entities.CatalogKind, rels []entities.CatalogRelation, ids map[int64]int64, stats *ports.SaveStats) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT OR IGNORE INTO %s (location_id, %s) VALUES (?, ?)`, t.relation, t.column))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", t.relation, err)
	}
	defer stmt.Close()

	for _, rel := range rels {
		stored, ok := ids[rel.CatalogID]
		if !ok {
			return fmt.Errorf("location %d references unknown %s id %d", rel.LocationID, t.table, rel.CatalogID)
		}
		res, err := stmt.ExecContext(ctx, rel.LocationID, stored)
		if err != nil {
			return fmt.Errorf("saving %s for location %d: %w", t.relation, rel.LocationID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.RelationsCreated++
		}
	}
	return nil
}

func saveHours(ctx context.Context, tx *sql.Tx, entries []entities.BusinessHoursEntry, stats *ports.SaveStats) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO business_hours
			(location_id, day_of_week, open_time, close_time, period_order, period_name)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing business hours insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		res, err := stmt.ExecContext(ctx,
			e.LocationID,
			int(e.DayOfWeek),
			string(e.OpenTime),
			string(e.CloseTime),
			e.PeriodOrder,
			e.PeriodName,
		)
		if err != nil {
			return fmt.Errorf("saving business hours for location %d: %w", e.LocationID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.HoursCreated++
		} else {
			stats.HoursExisting++
		}
	}
	return nil
}

// FindLocation returns a location by id, or nil if it doesn't exist.
func (r *Repository) FindLocation(ctx context.Context, id int64) (*entities.Location, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, address, phone FROM locations WHERE id = ?`, id)

	var loc entities.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	return &loc, nil
}

// ListBusinessHours returns the hours of a location, Monday first and in period order.
func (r *Repository) ListBusinessHours(ctx context.Context, locationID int64) ([]entities.BusinessHoursEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT location_id, day_of_week, open_time, close_time, period_order, period_name
		FROM business_hours
		WHERE location_id = ?
		ORDER BY day_of_week, period_order
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("querying business hours: %w", err)
	}
	defer rows.Close()

	var entries []entities.BusinessHoursEntry
	for rows.Next() {
		var e entities.BusinessHoursEntry
		var day int
		var open, closing string
		if err := rows.Scan(&e.LocationID, &day, &open, &closing, &e.PeriodOrder, &e.PeriodName); err != nil {
			return nil, fmt.Errorf("scanning business hours: %w", err)
		}
		e.DayOfWeek = entities.Weekday(day)
		e.OpenTime = entities.CanonicalTime(open)
		e.CloseTime = entities.CanonicalTime(closing)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating business hours: %w", err)
	}
	return entries, nil
}

// ListCatalog returns the rows of a catalog ordered by id.
func (r *Repository) ListCatalog(ctx context.Context, kind entities.CatalogKind) ([]entities.CatalogItem, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, code, name, is_active FROM %s ORDER BY id`, t.table)
	return r.queryCatalog(ctx, query)
}

// ListLocationCatalog returns the catalog rows a location is linked to.
func (r *Repository) ListLocationCatalog(ctx context.Context, kind entities.CatalogKind, locationID int64) ([]entities.CatalogItem, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT c.id, c.code, c.name, c.is_active
		FROM %s c
		JOIN %s r ON r.%s = c.id
		WHERE r.location_id = ?
		ORDER BY c.id
	`, t.table, t.relation, t.column)
	return r.queryCatalog(ctx, query, locationID)
}

// queryCatalog is a helper to execute catalog queries.
func (r *Repository) queryCatalog(ctx context.Context, query string, args ...any) ([]entities.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var items []entities.CatalogItem
	for rows.Next() {
		var item entities.CatalogItem
		if err := rows.Scan(&item.ID, &item.Code, &item.Name, &item.IsActive); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog: %w", err)
	}
	return items, nil
}

// CountLocations returns the number of stored locations.
func (r *Repository) CountLocations(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting locations: %w", err)
	}
	return count, nil
}

// DeleteLocation removes a location with its relations and hours.
func (r *Repository) DeleteLocation(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range []string{
		`DELETE FROM business_hours WHERE location_id = ?`,
		`DELETE FROM location_service_types WHERE location_id = ?`,
		`DELETE FROM location_pet_types WHERE location_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("deleting location %d: %w", id, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting location %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting location %d: %w", id, ports.ErrLocationNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// LogRun records a completed normalization run.
func (r *Repository) LogRun(ctx context.Context, run *entities.ImportRun) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, source_file, locations, hours_created, hours_existing, diagnostics, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceFile, run.Locations, run.HoursCreated, run.HoursExisting, run.Diagnostics, createdAt)
	if err != nil {
		return fmt.Errorf("logging run: %w", err)
	}
	return nil
}

// FindRuns returns the most recent runs first.
func (r *Repository) FindRuns(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_file, locations, hours_created, hours_existing, diagnostics, created_at
		FROM import_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]entities.ImportRun, 0, max(limit, 0))
	for rows.Next() {
		var run entities.ImportRun
		if err := rows.Scan(
			&run.ID,
			&run.SourceFile,
			&run.Locations,
			&run.HoursCreated,
			&run.HoursExisting,
			&run.Diagnostics,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
)

// SQLCatalog is the postgres-flavored catalog adapter, used when the dataset
// is served from a shared database instead of the embedded sqlite file.
type SQLCatalog struct {
	DB *sql.DB
}

func NewSQLCatalog(db *sql.DB) *SQLCatalog {
	return &SQLCatalog{DB: db}
}

// Initialize the postgres catalog schema.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createPoisQuery := `
	CREATE TABLE IF NOT EXISTS pois (
		place_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		themes TEXT NOT NULL,
		tags TEXT NOT NULL,
		price_band TEXT NOT NULL,
		estimated_cost DOUBLE PRECISION NOT NULL,
		duration_minutes INTEGER NOT NULL,
		opening_hours TEXT NOT NULL,
		seasonality TEXT NOT NULL,
		region TEXT NOT NULL,
		safety_flags TEXT NOT NULL
	);
	`

	if _, err := db.Exec(createPoisQuery); err != nil {
		return fmt.Errorf("init schema: create pois table: %w", err)
	}

	return nil
}

// Populate the postgres catalog from a JSON seed file.
func SeedFromJSONPostgres(db *sql.DB, jsonPath string) error {
	seeds, err := ReadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed pois: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed pois: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO pois (
		place_id, name, lat, lng, themes, tags, price_band,
		estimated_cost, duration_minutes, opening_hours,
		seasonality, region, safety_flags
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (place_id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		themes = EXCLUDED.themes,
		tags = EXCLUDED.tags,
		price_band = EXCLUDED.price_band,
		estimated_cost = EXCLUDED.estimated_cost,
		duration_minutes = EXCLUDED.duration_minutes,
		opening_hours = EXCLUDED.opening_hours,
		seasonality = EXCLUDED.seasonality,
		region = EXCLUDED.region,
		safety_flags = EXCLUDED.safety_flags;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed pois: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range seeds {
		args, err := seedToArgs(s)
		if err != nil {
			return fmt.Errorf("seed pois: %w", err)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("seed pois: insert place_id=%q: %w", s.PlaceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed pois: commit tx: %w", err)
	}

	return nil
}

// Return all catalog POIs, ordered by place id.
func (c *SQLCatalog) ListPOIs(ctx context.Context) ([]*domain.POI, error) {
	if c.DB == nil {
		return nil, errors.New("catalog: db is nil")
	}

	rows, err := c.DB.QueryContext(ctx, selectPOIsQuery)
	if err != nil {
		return nil, fmt.Errorf("list pois: query pois table: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

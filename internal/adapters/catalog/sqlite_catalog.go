package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
)

// SqliteCatalog serves the read-only POI catalog from an embedded sqlite
// database. Set-valued fields are stored as JSON text columns.
type SqliteCatalog struct {
	DB *sql.DB
}

func NewSqliteCatalog(db *sql.DB) *SqliteCatalog {
	return &SqliteCatalog{DB: db}
}

// Initialize the sqlite catalog schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createPoisQuery := `
	CREATE TABLE IF NOT EXISTS pois (
		place_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL,
		lng REAL,
		themes TEXT NOT NULL,
		tags TEXT NOT NULL,
		price_band TEXT NOT NULL,
		estimated_cost REAL NOT NULL,
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

// Populate the catalog from a JSON seed file. Existing rows are replaced.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
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
	INSERT OR REPLACE INTO pois (
		place_id, name, lat, lng, themes, tags, price_band,
		estimated_cost, duration_minutes, opening_hours,
		seasonality, region, safety_flags
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
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

func seedToArgs(s POISeed) ([]any, error) {
	var lat, lng any
	if s.Coords != nil {
		lat, lng = s.Coords.Lat, s.Coords.Lng
	}

	jsonCols := make([]string, 0, 4)
	for _, v := range []any{s.Themes, s.Tags, s.Seasonality, s.SafetyFlags} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal place_id=%q: %w", s.PlaceID, err)
		}
		jsonCols = append(jsonCols, string(b))
	}

	hours, err := json.Marshal(s.OpeningHours)
	if err != nil {
		return nil, fmt.Errorf("marshal opening hours place_id=%q: %w", s.PlaceID, err)
	}

	return []any{
		s.PlaceID, s.Name, lat, lng,
		jsonCols[0], jsonCols[1], s.PriceBand,
		s.EstimatedCost, s.DurationMinutes, string(hours),
		jsonCols[2], s.Region, jsonCols[3],
	}, nil
}

const selectPOIsQuery = `
	SELECT place_id, name, lat, lng, themes, tags, price_band,
		estimated_cost, duration_minutes, opening_hours,
		seasonality, region, safety_flags
	FROM pois
	ORDER BY place_id;
	`

// Return all catalog POIs, ordered by place id.
func (c *SqliteCatalog) ListPOIs(ctx context.Context) ([]*domain.POI, error) {
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

func scanPOIs(rows *sql.Rows) ([]*domain.POI, error) {
	var out []*domain.POI

	for rows.Next() {
		var (
			seed     POISeed
			lat, lng sql.NullFloat64
			themes   string
			tags     string
			hours    string
			seasons  string
			safety   string
		)

		err := rows.Scan(
			&seed.PlaceID, &seed.Name, &lat, &lng, &themes, &tags, &seed.PriceBand,
			&seed.EstimatedCost, &seed.DurationMinutes, &hours,
			&seasons, &seed.Region, &safety,
		)
		if err != nil {
			return nil, fmt.Errorf("list pois: scan row: %w", err)
		}

		if lat.Valid && lng.Valid {
			seed.Coords = &seedCoords{Lat: lat.Float64, Lng: lng.Float64}
		}

		jsonCols := []struct {
			raw string
			dst any
		}{
			{themes, &seed.Themes},
			{tags, &seed.Tags},
			{hours, &seed.OpeningHours},
			{seasons, &seed.Seasonality},
			{safety, &seed.SafetyFlags},
		}
		for _, col := range jsonCols {
			if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
				return nil, fmt.Errorf("list pois: decode place_id=%q: %w", seed.PlaceID, err)
			}
		}

		poi, err := seed.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("list pois: %w", err)
		}
		out = append(out, poi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pois: row iteration: %w", err)
	}

	return out, nil
}

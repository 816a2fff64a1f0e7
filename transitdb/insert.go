package transitdb

import (
	"database/sql"
	"fmt"
)

// BulkUpsertStops adds or updates stops inside a single transaction and
// returns the resulting rows keyed by name.
func BulkUpsertStops(db *sql.DB, stops []UpsertStopParams) (map[string]Stop, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stops (name, lat, lon)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET lat = excluded.lat, lon = excluded.lon
		RETURNING stop_id, name, lat, lon;
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return nil, fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	byName := make(map[string]Stop, len(stops))
	for _, stop := range stops {
		var s Stop
		if err := stmt.QueryRow(stop.Name, stop.Lat, stop.Lon).Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			tx.Rollback() // nolint:errcheck
			return nil, fmt.Errorf("error inserting stop: %w", err)
		}
		byName[s.Name] = s
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return byName, nil
}

// BulkUpsertEdges adds or updates directed edges inside a single transaction
func BulkUpsertEdges(db *sql.DB, edges []UpsertEdgeParams) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO edges (from_stop_id, to_stop_id, distance_km)
		VALUES (?, ?, ?)
		ON CONFLICT (from_stop_id, to_stop_id) DO UPDATE SET distance_km = excluded.distance_km;
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, edge := range edges {
		if _, err := stmt.Exec(edge.FromStopID, edge.ToStopID, edge.DistanceKm); err != nil {
			tx.Rollback() // nolint:errcheck
			return fmt.Errorf("error inserting edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

package transitdb

import (
	"context"
	"database/sql"
)

// DBTX is the interface shared by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries wraps a database handle with typed query methods
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertStop = `
INSERT INTO stops (name, lat, lon)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET lat = excluded.lat, lon = excluded.lon
RETURNING stop_id, name, lat, lon
`

type UpsertStopParams struct {
	Name string
	Lat  float64
	Lon  float64
}

// UpsertStop inserts a stop or updates its coordinates when the name exists
func (q *Queries) UpsertStop(ctx context.Context, arg UpsertStopParams) (Stop, error) {
	row := q.db.QueryRowContext(ctx, upsertStop, arg.Name, arg.Lat, arg.Lon)
	var s Stop
	err := row.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon)
	return s, err
}

const getStop = `
SELECT stop_id, name, lat, lon FROM stops WHERE stop_id = ?
`

func (q *Queries) GetStop(ctx context.Context, id int64) (Stop, error) {
	row := q.db.QueryRowContext(ctx, getStop, id)
	var s Stop
	err := row.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon)
	return s, err
}

const listStops = `
SELECT stop_id, name, lat, lon FROM stops ORDER BY name
`

func (q *Queries) ListStops(ctx context.Context) ([]Stop, error) {
	rows, err := q.db.QueryContext(ctx, listStops)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var stops []Stop
	for rows.Next() {
		var s Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

const getStopsWithinBounds = `
SELECT s.stop_id, s.name, s.lat, s.lon
FROM stops s
JOIN stops_rtree r ON s.stop_id = r.id
WHERE r.min_lat >= ? AND r.max_lat <= ?
  AND r.min_lon >= ? AND r.max_lon <= ?
`

type GetStopsWithinBoundsParams struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// GetStopsWithinBounds returns stops inside a bounding box via the R*Tree index
func (q *Queries) GetStopsWithinBounds(ctx context.Context, arg GetStopsWithinBoundsParams) ([]Stop, error) {
	rows, err := q.db.QueryContext(ctx, getStopsWithinBounds, arg.MinLat, arg.MaxLat, arg.MinLon, arg.MaxLon)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var stops []Stop
	for rows.Next() {
		var s Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

const countStops = `
SELECT COUNT(*) FROM stops
`

func (q *Queries) CountStops(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countStops).Scan(&count)
	return count, err
}

const upsertEdge = `
INSERT INTO edges (from_stop_id, to_stop_id, distance_km)
VALUES (?, ?, ?)
ON CONFLICT (from_stop_id, to_stop_id) DO UPDATE SET distance_km = excluded.distance_km
`

type UpsertEdgeParams struct {
	FromStopID int64
	ToStopID   int64
	DistanceKm float64
}

// UpsertEdge inserts a directed edge or updates its distance when the pair exists
func (q *Queries) UpsertEdge(ctx context.Context, arg UpsertEdgeParams) error {
	_, err := q.db.ExecContext(ctx, upsertEdge, arg.FromStopID, arg.ToStopID, arg.DistanceKm)
	return err
}

const updateEdgeMetrics = `
UPDATE edges SET distance_km = ?, duration_min = ? WHERE edge_id = ?
`

type UpdateEdgeMetricsParams struct {
	EdgeID      int64
	DistanceKm  float64
	DurationMin float64
}

// UpdateEdgeMetrics stores refreshed road distance and travel time for an edge
func (q *Queries) UpdateEdgeMetrics(ctx context.Context, arg UpdateEdgeMetricsParams) error {
	_, err := q.db.ExecContext(ctx, updateEdgeMetrics, arg.DistanceKm, arg.DurationMin, arg.EdgeID)
	return err
}

const listEdges = `
SELECT edge_id, from_stop_id, to_stop_id, distance_km, duration_min
FROM edges ORDER BY edge_id
`

func (q *Queries) ListEdges(ctx context.Context) ([]Edge, error) {
	rows, err := q.db.QueryContext(ctx, listEdges)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FromStopID, &e.ToStopID, &e.DistanceKm, &e.DurationMin); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

const listEdgesWithStops = `
SELECT e.edge_id, e.distance_km, e.duration_min,
       f.stop_id, f.name, f.lat, f.lon,
       t.stop_id, t.name, t.lat, t.lon
FROM edges e
JOIN stops f ON e.from_stop_id = f.stop_id
JOIN stops t ON e.to_stop_id = t.stop_id
ORDER BY e.edge_id
`

type ListEdgesWithStopsRow struct {
	Edge Edge
	From Stop
	To   Stop
}

// ListEdgesWithStops returns every edge joined with both endpoint stops
func (q *Queries) ListEdgesWithStops(ctx context.Context) ([]ListEdgesWithStopsRow, error) {
	rows, err := q.db.QueryContext(ctx, listEdgesWithStops)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var results []ListEdgesWithStopsRow
	for rows.Next() {
		var r ListEdgesWithStopsRow
		err := rows.Scan(
			&r.Edge.ID, &r.Edge.DistanceKm, &r.Edge.DurationMin,
			&r.From.ID, &r.From.Name, &r.From.Lat, &r.From.Lon,
			&r.To.ID, &r.To.Name, &r.To.Lat, &r.To.Lon,
		)
		if err != nil {
			return nil, err
		}
		r.Edge.FromStopID = r.From.ID
		r.Edge.ToStopID = r.To.ID
		results = append(results, r)
	}
	return results, rows.Err()
}

const edgesForStop = `
SELECT edge_id, from_stop_id, to_stop_id, distance_km, duration_min
FROM edges WHERE from_stop_id = ? OR to_stop_id = ?
ORDER BY edge_id
`

// EdgesForStop returns every edge that starts or ends at the given stop
func (q *Queries) EdgesForStop(ctx context.Context, stopID int64) ([]Edge, error) {
	rows, err := q.db.QueryContext(ctx, edgesForStop, stopID, stopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FromStopID, &e.ToStopID, &e.DistanceKm, &e.DurationMin); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

const deleteAllEdges = `
DELETE FROM edges
`

func (q *Queries) DeleteAllEdges(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllEdges)
	return err
}

const countEdges = `
SELECT COUNT(*) FROM edges
`

func (q *Queries) CountEdges(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEdges).Scan(&count)
	return count, err
}

const insertRefreshStats = `
INSERT INTO refresh_stats (updated, skipped, refreshed_at)
VALUES (?, ?, ?)
`

type InsertRefreshStatsParams struct {
	Updated     int64
	Skipped     int64
	RefreshedAt string
}

func (q *Queries) InsertRefreshStats(ctx context.Context, arg InsertRefreshStatsParams) error {
	_, err := q.db.ExecContext(ctx, insertRefreshStats, arg.Updated, arg.Skipped, arg.RefreshedAt)
	return err
}

const latestRefreshStats = `
SELECT refresh_id, updated, skipped, refreshed_at
FROM refresh_stats ORDER BY refresh_id DESC LIMIT 1
`

// LatestRefreshStats returns the most recent refresh run, or sql.ErrNoRows
func (q *Queries) LatestRefreshStats(ctx context.Context) (RefreshStats, error) {
	row := q.db.QueryRowContext(ctx, latestRefreshStats)
	var r RefreshStats
	err := row.Scan(&r.ID, &r.Updated, &r.Skipped, &r.RefreshedAt)
	return r, err
}

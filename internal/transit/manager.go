package transit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"transit.sullia.org/internal/graph"
	"transit.sullia.org/internal/metrics"
	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/ors"
	"transit.sullia.org/transitdb"
)

// ErrStopNotFound is returned when a shortest-path endpoint references a
// stop that does not exist.
var ErrStopNotFound = errors.New("stop not found")

// Manager owns the transit database and an in-memory snapshot of the stop
// graph, and coordinates the background OpenRouteService refresh worker.
type Manager struct {
	config    Config
	TransitDB *transitdb.Client
	orsClient *ors.Client

	snapshotMutex sync.RWMutex
	snapshot      *graph.Graph
	snapshotStops map[int64]transitdb.Stop

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager creates the Manager, runs migrations, and builds the first
// graph snapshot. The ORS refresh worker starts only when an API key and a
// refresh interval are configured.
func InitManager(config Config) (*Manager, error) {
	dbClient, err := transitdb.NewClient(transitdb.NewConfig(config.DBPath, config.Env, config.Verbose))
	if err != nil {
		return nil, fmt.Errorf("error building transit database: %w", err)
	}

	manager := &Manager{
		config:       config,
		TransitDB:    dbClient,
		orsClient:    ors.NewClient(config.ORS),
		shutdownChan: make(chan struct{}),
	}

	if err := manager.RebuildSnapshot(context.Background()); err != nil {
		return nil, fmt.Errorf("error building graph snapshot: %w", err)
	}

	if config.orsRefreshEnabled() {
		manager.wg.Add(1)
		go manager.refreshEdgeMetricsPeriodically()
	}

	return manager, nil
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.TransitDB != nil {
			_ = manager.TransitDB.Close()
		}
	})
}

// ORSClient returns the OpenRouteService client
func (manager *Manager) ORSClient() *ors.Client {
	return manager.orsClient
}

// RebuildSnapshot reloads the stop and edge tables into a fresh immutable
// graph and swaps it in. Call after any bulk data change.
func (manager *Manager) RebuildSnapshot(ctx context.Context) error {
	stops, err := manager.TransitDB.Queries.ListStops(ctx)
	if err != nil {
		return fmt.Errorf("error loading stops: %w", err)
	}

	edges, err := manager.TransitDB.Queries.ListEdges(ctx)
	if err != nil {
		return fmt.Errorf("error loading edges: %w", err)
	}

	g := graph.New()
	for _, e := range edges {
		g.AddArc(e.FromStopID, graph.Arc{
			To:          e.ToStopID,
			DistanceKm:  e.DistanceKm,
			DurationMin: e.DurationMin.Float64,
			HasDuration: e.DurationMin.Valid,
		})
	}

	byID := make(map[int64]transitdb.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
	}

	manager.snapshotMutex.Lock()
	manager.snapshot = g
	manager.snapshotStops = byID
	manager.snapshotMutex.Unlock()

	return nil
}

// Snapshot returns the current graph snapshot
func (manager *Manager) Snapshot() *graph.Graph {
	manager.snapshotMutex.RLock()
	defer manager.snapshotMutex.RUnlock()
	return manager.snapshot
}

// StopByID looks up a stop in the current snapshot
func (manager *Manager) StopByID(id int64) (transitdb.Stop, bool) {
	manager.snapshotMutex.RLock()
	defer manager.snapshotMutex.RUnlock()
	stop, ok := manager.snapshotStops[id]
	return stop, ok
}

// ShortestPath computes the shortest path between two stops and, when the
// ORS client is enabled, enriches it with road geometry and metrics. It
// returns ErrStopNotFound when either endpoint does not exist, and a nil
// result when no path connects them.
func (manager *Manager) ShortestPath(ctx context.Context, originID, destinationID int64) (*models.PathResult, error) {
	if _, ok := manager.StopByID(originID); !ok {
		return nil, fmt.Errorf("origin %d: %w", originID, ErrStopNotFound)
	}
	if _, ok := manager.StopByID(destinationID); !ok {
		return nil, fmt.Errorf("destination %d: %w", destinationID, ErrStopNotFound)
	}

	path, found := manager.Snapshot().ShortestPath(originID, destinationID)
	if !found {
		metrics.ShortestPathComputations.WithLabelValues("not_found").Inc()
		return nil, nil
	}
	metrics.ShortestPathComputations.WithLabelValues("found").Inc()

	stops := make([]models.Stop, 0, len(path.StopIDs))
	points := make([]models.CoordinatePoint, 0, len(path.StopIDs))
	for _, id := range path.StopIDs {
		stop, ok := manager.StopByID(id)
		if !ok {
			return nil, fmt.Errorf("path stop %d: %w", id, ErrStopNotFound)
		}
		stops = append(stops, models.NewStop(stop.ID, stop.Name, stop.Lat, stop.Lon))
		points = append(points, models.CoordinatePoint{Lat: stop.Lat, Lon: stop.Lon})
	}

	result := &models.PathResult{
		Path:          path.StopIDs,
		TotalDistance: path.TotalDistanceKm,
		Stops:         stops,
	}
	if path.HasDuration {
		duration := path.TotalDurationMin
		result.TotalDurationMin = &duration
	}

	// Enrich with real road geometry when ORS is available. A failed call
	// only drops the enrichment, never the path itself.
	if manager.orsClient.Enabled() && len(points) >= 2 {
		if directions, err := manager.orsClient.Directions(ctx, points); err == nil {
			result.ORS = &models.ORSLeg{
				GeoJSON:     directions.GeoJSON,
				DistanceKm:  directions.DistanceKm,
				DurationMin: directions.DurationMin,
			}
		}
	}

	return result, nil
}

// Statistics returns node/edge counts and the latest ORS refresh stats
func (manager *Manager) Statistics(ctx context.Context) (models.Stats, error) {
	nodes, err := manager.TransitDB.Queries.CountStops(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("error counting stops: %w", err)
	}

	edges, err := manager.TransitDB.Queries.CountEdges(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("error counting edges: %w", err)
	}

	stats := models.Stats{Nodes: nodes, Edges: edges}

	refresh, err := manager.TransitDB.Queries.LatestRefreshStats(ctx)
	switch {
	case err == nil:
		stats.ORS = &models.RefreshStats{
			Updated:   refresh.Updated,
			Skipped:   refresh.Skipped,
			Timestamp: refresh.RefreshedAt,
		}
	case errors.Is(err, sql.ErrNoRows):
		// No refresh has run yet
	default:
		return models.Stats{}, fmt.Errorf("error loading refresh stats: %w", err)
	}

	return stats, nil
}

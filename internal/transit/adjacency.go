package transit

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/utils"
	"transit.sullia.org/transitdb"
)

// AdjacencyOptions controls LoadAdjacencyEdges
type AdjacencyOptions struct {
	// Undirected also adds reverse edges
	Undirected bool
	// Clear deletes all existing edges before creating new ones
	Clear bool
}

// LoadAdjacencyEdges builds edges from a YAML adjacency file mapping stop ids
// to their neighbor ids. Distances come from stop coordinates. Pairs that
// reference a missing stop are skipped with a warning.
func (manager *Manager) LoadAdjacencyEdges(ctx context.Context, path string, opts AdjacencyOptions) (int, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "adjacency_loader"))

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("error reading adjacency file: %w", err)
	}

	var adjacency map[int64][]int64
	if err := yaml.Unmarshal(data, &adjacency); err != nil {
		return 0, fmt.Errorf("error parsing adjacency file: %w", err)
	}

	if opts.Clear {
		if err := manager.TransitDB.Queries.DeleteAllEdges(ctx); err != nil {
			return 0, fmt.Errorf("error clearing edges: %w", err)
		}
	}

	stops, err := manager.TransitDB.Queries.ListStops(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading stops: %w", err)
	}
	byID := make(map[int64]transitdb.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
	}

	var params []transitdb.UpsertEdgeParams
	for from, neighbors := range adjacency {
		fromStop, ok := byID[from]
		if !ok {
			logger.Warn("skipping adjacency entry for unknown stop", "stop_id", from)
			continue
		}
		for _, to := range neighbors {
			toStop, ok := byID[to]
			if !ok {
				logger.Warn("skipping edge to unknown stop", "from", from, "to", to)
				continue
			}
			dist := utils.HaversineKm(fromStop.Lat, fromStop.Lon, toStop.Lat, toStop.Lon)
			params = append(params, transitdb.UpsertEdgeParams{
				FromStopID: from,
				ToStopID:   to,
				DistanceKm: dist,
			})
			if opts.Undirected {
				params = append(params, transitdb.UpsertEdgeParams{
					FromStopID: to,
					ToStopID:   from,
					DistanceKm: dist,
				})
			}
		}
	}

	if err := transitdb.BulkUpsertEdges(manager.TransitDB.DB, params); err != nil {
		return 0, fmt.Errorf("error upserting edges: %w", err)
	}

	if err := manager.RebuildSnapshot(ctx); err != nil {
		return len(params), err
	}

	logging.LogOperation(logger, "loaded_adjacency_edges", slog.Int("edges", len(params)))

	return len(params), nil
}

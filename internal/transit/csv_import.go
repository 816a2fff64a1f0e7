package transit

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/utils"
	"transit.sullia.org/transitdb"
)

// CSVImportOptions controls ImportStopsCSV
type CSVImportOptions struct {
	// MakeRoutes also generates k-nearest-neighbor edges after the import
	MakeRoutes bool
	// K is the number of nearest neighbors to connect per stop
	K int
	// Undirected creates reverse edges too
	Undirected bool
}

// ImportSummary reports what an import changed
type ImportSummary struct {
	Stops int
	Edges int
}

// ImportStopsCSV upserts stops from a CSV file with stop_name/name, latitude
// and longitude columns, optionally generating k-nearest-neighbor edges.
func (manager *Manager) ImportStopsCSV(ctx context.Context, path string, opts CSVImportOptions) (ImportSummary, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "csv_import"))

	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("error opening CSV: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "csv_file")

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("error reading CSV header: %w", err)
	}

	nameIdx, latIdx, lonIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToLower(col)) {
		case "stop_name", "name":
			if nameIdx == -1 {
				nameIdx = i
			}
		case "latitude":
			latIdx = i
		case "longitude":
			lonIdx = i
		}
	}
	if nameIdx == -1 || latIdx == -1 || lonIdx == -1 {
		return ImportSummary{}, fmt.Errorf("CSV is missing required columns (stop_name/name, latitude, longitude)")
	}

	var params []transitdb.UpsertStopParams
	records, err := reader.ReadAll()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("error reading CSV rows: %w", err)
	}

	for _, row := range records {
		name := strings.TrimSpace(row[nameIdx])
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if name == "" || latErr != nil || lonErr != nil {
			logger.Warn("skipping row due to parse error", "row", row)
			continue
		}
		params = append(params, transitdb.UpsertStopParams{Name: name, Lat: lat, Lon: lon})
	}

	if _, err := transitdb.BulkUpsertStops(manager.TransitDB.DB, params); err != nil {
		return ImportSummary{}, fmt.Errorf("error upserting stops: %w", err)
	}

	summary := ImportSummary{Stops: len(params)}

	if opts.MakeRoutes {
		k := opts.K
		if k <= 0 {
			k = 3
		}
		edges, err := manager.GenerateKNearestEdges(ctx, k, opts.Undirected)
		if err != nil {
			return summary, err
		}
		summary.Edges = edges
	}

	if err := manager.RebuildSnapshot(ctx); err != nil {
		return summary, err
	}

	logging.LogOperation(logger, "imported_stops_csv",
		slog.Int("stops", summary.Stops),
		slog.Int("edges", summary.Edges))

	return summary, nil
}

// GenerateKNearestEdges connects every stop to its k nearest neighbors with
// haversine-weighted edges. With undirected set, reverse edges are added too.
func (manager *Manager) GenerateKNearestEdges(ctx context.Context, k int, undirected bool) (int, error) {
	stops, err := manager.TransitDB.Queries.ListStops(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading stops: %w", err)
	}

	var params []transitdb.UpsertEdgeParams
	for _, stop := range stops {
		type neighbor struct {
			id   int64
			dist float64
		}
		neighbors := make([]neighbor, 0, len(stops)-1)
		for _, other := range stops {
			if other.ID == stop.ID {
				continue
			}
			neighbors = append(neighbors, neighbor{
				id:   other.ID,
				dist: utils.HaversineKm(stop.Lat, stop.Lon, other.Lat, other.Lon),
			})
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })

		for i := 0; i < k && i < len(neighbors); i++ {
			params = append(params, transitdb.UpsertEdgeParams{
				FromStopID: stop.ID,
				ToStopID:   neighbors[i].id,
				DistanceKm: neighbors[i].dist,
			})
			if undirected {
				params = append(params, transitdb.UpsertEdgeParams{
					FromStopID: neighbors[i].id,
					ToStopID:   stop.ID,
					DistanceKm: neighbors[i].dist,
				})
			}
		}
	}

	if err := transitdb.BulkUpsertEdges(manager.TransitDB.DB, params); err != nil {
		return 0, fmt.Errorf("error upserting edges: %w", err)
	}

	return len(params), nil
}

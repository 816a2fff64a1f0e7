package transit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/jamespfennell/gtfs"

	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/utils"
	"transit.sullia.org/transitdb"
)

// ImportGTFSStatic imports stops from a GTFS static zip (URL or local file)
// and derives edges from consecutive stops of each trip, weighted by
// haversine distance. Stops without coordinates are skipped.
func (manager *Manager) ImportGTFSStatic(ctx context.Context, source string) (ImportSummary, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "gtfs_import"))

	isLocalFile := !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")

	b, err := rawGTFSData(ctx, source, isLocalFile)
	if err != nil {
		return ImportSummary{}, err
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	var stopParams []transitdb.UpsertStopParams
	names := make(map[string]string, len(staticData.Stops)) // gtfs stop id -> name
	for _, s := range staticData.Stops {
		if s.Latitude == nil || s.Longitude == nil || s.Name == "" {
			continue
		}
		names[s.Id] = s.Name
		stopParams = append(stopParams, transitdb.UpsertStopParams{
			Name: s.Name,
			Lat:  *s.Latitude,
			Lon:  *s.Longitude,
		})
	}

	byName, err := transitdb.BulkUpsertStops(manager.TransitDB.DB, stopParams)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("error upserting GTFS stops: %w", err)
	}

	var edgeParams []transitdb.UpsertEdgeParams
	seen := make(map[[2]int64]bool)
	for _, trip := range staticData.Trips {
		for i := 0; i < len(trip.StopTimes)-1; i++ {
			from, fromOK := byName[names[trip.StopTimes[i].Stop.Id]]
			to, toOK := byName[names[trip.StopTimes[i+1].Stop.Id]]
			if !fromOK || !toOK || from.ID == to.ID {
				continue
			}
			pair := [2]int64{from.ID, to.ID}
			if seen[pair] {
				continue
			}
			seen[pair] = true
			edgeParams = append(edgeParams, transitdb.UpsertEdgeParams{
				FromStopID: from.ID,
				ToStopID:   to.ID,
				DistanceKm: utils.HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon),
			})
		}
	}

	if err := transitdb.BulkUpsertEdges(manager.TransitDB.DB, edgeParams); err != nil {
		return ImportSummary{}, fmt.Errorf("error upserting GTFS edges: %w", err)
	}

	summary := ImportSummary{Stops: len(stopParams), Edges: len(edgeParams)}

	if err := manager.RebuildSnapshot(ctx); err != nil {
		return summary, err
	}

	logging.LogOperation(logger, "imported_gtfs_static",
		slog.String("source", source),
		slog.Int("stops", summary.Stops),
		slog.Int("edges", summary.Edges))

	return summary, nil
}

func rawGTFSData(ctx context.Context, source string, isLocalFile bool) ([]byte, error) {
	if isLocalFile {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "gtfs_downloader")),
		"http_response_body")

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

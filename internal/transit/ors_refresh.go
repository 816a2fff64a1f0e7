package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/ors"
	"transit.sullia.org/internal/utils"
	"transit.sullia.org/transitdb"
)

// RefreshOptions controls RefreshEdgeMetricsWithORS
type RefreshOptions struct {
	// Limit caps the number of edges processed (0 = all)
	Limit int
	// SkipExisting leaves edges that already have a duration untouched
	SkipExisting bool
	// DryRun computes but does not write to the database
	DryRun bool
	// Retries per edge on failure
	Retries int
}

// RefreshOutcome reports the result of one refresh run
type RefreshOutcome struct {
	Updated int64
	Skipped int64
}

// RefreshEdgeMetricsWithORS recomputes each edge's road distance and travel
// time through the OpenRouteService directions API. Pacing is handled by the
// ORS client's rate limiter. Unless dry-running, the outcome is persisted as
// a refresh_stats row and the graph snapshot is rebuilt.
func (manager *Manager) RefreshEdgeMetricsWithORS(ctx context.Context, opts RefreshOptions) (RefreshOutcome, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "ors_refresh"))

	if !manager.orsClient.Enabled() {
		return RefreshOutcome{}, ors.ErrDisabled
	}

	rows, err := manager.TransitDB.Queries.ListEdgesWithStops(ctx)
	if err != nil {
		return RefreshOutcome{}, fmt.Errorf("error loading edges: %w", err)
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	var outcome RefreshOutcome
	for _, row := range rows {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		if opts.SkipExisting && row.Edge.DurationMin.Valid && row.Edge.DistanceKm > 0 {
			continue
		}

		var distKm, durMin float64
		var pairErr error
		for attempt := 0; attempt <= opts.Retries; attempt++ {
			distKm, durMin, pairErr = manager.orsClient.PairMetrics(ctx,
				models.CoordinatePoint{Lat: row.From.Lat, Lon: row.From.Lon},
				models.CoordinatePoint{Lat: row.To.Lat, Lon: row.To.Lon},
			)
			if pairErr == nil {
				break
			}
		}

		if pairErr != nil {
			outcome.Skipped++
			logging.LogError(logger, "failed to refresh edge metrics", pairErr,
				slog.Int64("edge_id", row.Edge.ID))
			continue
		}

		if !opts.DryRun {
			err := manager.TransitDB.Queries.UpdateEdgeMetrics(ctx, transitdb.UpdateEdgeMetricsParams{
				EdgeID:      row.Edge.ID,
				DistanceKm:  distKm,
				DurationMin: durMin,
			})
			if err != nil {
				return outcome, fmt.Errorf("error updating edge %d: %w", row.Edge.ID, err)
			}
		}
		outcome.Updated++
	}

	if !opts.DryRun {
		err := manager.TransitDB.Queries.InsertRefreshStats(ctx, transitdb.InsertRefreshStatsParams{
			Updated:     outcome.Updated,
			Skipped:     outcome.Skipped,
			RefreshedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return outcome, fmt.Errorf("error recording refresh stats: %w", err)
		}
		if err := manager.RebuildSnapshot(ctx); err != nil {
			return outcome, err
		}
	}

	logging.LogOperation(logger, "refreshed_edge_metrics",
		slog.Int64("updated", outcome.Updated),
		slog.Int64("skipped", outcome.Skipped),
		slog.Bool("dry_run", opts.DryRun))

	return outcome, nil
}

func (manager *Manager) refreshEdgeMetricsPeriodically() {
	defer manager.wg.Done()

	logger := slog.Default().With(slog.String("component", "ors_refresh_worker"))

	ticker := time.NewTicker(manager.config.ORS.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			ctx = logging.WithLogger(ctx, logger)

			logging.LogOperation(logger, "running_scheduled_edge_refresh")
			if _, err := manager.RefreshEdgeMetricsWithORS(ctx, RefreshOptions{Retries: 1}); err != nil {
				logging.LogError(logger, "scheduled edge refresh failed", err)
			}
			cancel()
		case <-manager.shutdownChan:
			logging.LogOperation(logger, "shutting_down_edge_refresh")
			return
		}
	}
}

// MatrixOptions controls BuildDistanceMatrix
type MatrixOptions struct {
	OutputPath string
	// Limit caps the number of pairs processed (0 = all)
	Limit int
	// DryRun computes but does not write the output file
	DryRun bool
	// Retries per pair on failure
	Retries int
}

// MatrixEntry is one origin/destination cell of the distance matrix
type MatrixEntry struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Source      string  `json:"source"` // "ors" or "haversine"
}

// MatrixSummary reports how a matrix build went
type MatrixSummary struct {
	Pairs     int
	Fallbacks int
}

// BuildDistanceMatrix computes distance and travel time for every ordered
// stop pair via ORS, falling back to haversine (at an assumed 30 km/h) when
// a call fails, and writes the matrix as JSON keyed by "from-to".
func (manager *Manager) BuildDistanceMatrix(ctx context.Context, opts MatrixOptions) (MatrixSummary, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "ors_matrix"))

	stops, err := manager.TransitDB.Queries.ListStops(ctx)
	if err != nil {
		return MatrixSummary{}, fmt.Errorf("error loading stops: %w", err)
	}

	matrix := make(map[string]MatrixEntry)
	var summary MatrixSummary

	for _, from := range stops {
		for _, to := range stops {
			if from.ID == to.ID {
				continue
			}
			if opts.Limit > 0 && summary.Pairs >= opts.Limit {
				break
			}
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}

			entry := MatrixEntry{Source: "ors"}
			var pairErr error
			if manager.orsClient.Enabled() {
				for attempt := 0; attempt <= opts.Retries; attempt++ {
					entry.DistanceKm, entry.DurationMin, pairErr = manager.orsClient.PairMetrics(ctx,
						models.CoordinatePoint{Lat: from.Lat, Lon: from.Lon},
						models.CoordinatePoint{Lat: to.Lat, Lon: to.Lon},
					)
					if pairErr == nil {
						break
					}
				}
			} else {
				pairErr = ors.ErrDisabled
			}

			if pairErr != nil {
				distKm := utils.HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon)
				entry = MatrixEntry{
					DistanceKm:  distKm,
					DurationMin: distKm / 30.0 * 60.0,
					Source:      "haversine",
				}
				summary.Fallbacks++
			}

			matrix[fmt.Sprintf("%d-%d", from.ID, to.ID)] = entry
			summary.Pairs++
		}
	}

	if !opts.DryRun {
		data, err := json.MarshalIndent(matrix, "", "  ")
		if err != nil {
			return summary, fmt.Errorf("error encoding matrix: %w", err)
		}
		if err := os.WriteFile(opts.OutputPath, data, 0o644); err != nil {
			return summary, fmt.Errorf("error writing matrix file: %w", err)
		}
	}

	logging.LogOperation(logger, "built_distance_matrix",
		slog.Int("pairs", summary.Pairs),
		slog.Int("fallbacks", summary.Fallbacks),
		slog.Bool("dry_run", opts.DryRun))

	return summary, nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/transit"
)

var (
	dbPath    string
	env       string
	orsAPIKey string
	orsURL    string
	verbose   bool
)

func newManager() (*transit.Manager, error) {
	return transit.InitManager(transit.Config{
		DBPath:  dbPath,
		Env:     appconf.EnvFlagToEnvironment(env),
		Verbose: verbose,
		ORS: appconf.ORSConfig{
			BaseURL: orsURL,
			APIKey:  orsAPIKey,
		},
	})
}

func main() {
	logger := logging.NewStructuredLogger(os.Stderr, slog.LevelInfo)
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "transitctl",
		Short: "Manage the transit graph database",
		Long:  "transitctl imports stops and edges, refreshes road metrics via OpenRouteService, and builds distance matrices.",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "transit.db", "path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|test|staging|production)")
	rootCmd.PersistentFlags().StringVar(&orsAPIKey, "ors-api-key", os.Getenv("ORS_API_KEY"), "OpenRouteService API key")
	rootCmd.PersistentFlags().StringVar(&orsURL, "ors-url", "", "OpenRouteService base URL override")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose database logging")

	rootCmd.AddCommand(
		newImportCSVCommand(),
		newLoadEdgesCommand(),
		newImportGTFSCommand(),
		newRefreshORSCommand(),
		newBuildMatrixCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newImportCSVCommand() *cobra.Command {
	var (
		makeRoutes bool
		k          int
		undirected bool
	)

	cmd := &cobra.Command{
		Use:   "import-csv <file>",
		Short: "Import stops from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager()
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			summary, err := manager.ImportStopsCSV(cmd.Context(), args[0], transit.CSVImportOptions{
				MakeRoutes: makeRoutes,
				K:          k,
				Undirected: undirected,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d stops", summary.Stops)
			if makeRoutes {
				fmt.Printf(", generated %d edges", summary.Edges)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&makeRoutes, "make-routes", false, "generate k-nearest-neighbor edges after importing")
	cmd.Flags().IntVar(&k, "k", 3, "number of nearest neighbors per stop")
	cmd.Flags().BoolVar(&undirected, "undirected", false, "add reverse edges too")

	return cmd
}

func newLoadEdgesCommand() *cobra.Command {
	var (
		undirected bool
		clear      bool
	)

	cmd := &cobra.Command{
		Use:   "load-edges <file>",
		Short: "Load edges from a YAML adjacency file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager()
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			count, err := manager.LoadAdjacencyEdges(cmd.Context(), args[0], transit.AdjacencyOptions{
				Undirected: undirected,
				Clear:      clear,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Loaded %d edges\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undirected, "undirected", false, "add reverse edges too")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all existing edges first")

	return cmd
}

func newImportGTFSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-gtfs <file-or-url>",
		Short: "Import stops and edges from a GTFS static feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager()
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			summary, err := manager.ImportGTFSStatic(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d stops and %d edges\n", summary.Stops, summary.Edges)
			return nil
		},
	}
}

func newRefreshORSCommand() *cobra.Command {
	var (
		limit        int
		dryRun       bool
		skipExisting bool
		retries      int
	)

	cmd := &cobra.Command{
		Use:   "refresh-ors",
		Short: "Refresh edge road distances and travel times via OpenRouteService",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager()
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			outcome, err := manager.RefreshEdgeMetricsWithORS(cmd.Context(), transit.RefreshOptions{
				Limit:        limit,
				SkipExisting: skipExisting,
				DryRun:       dryRun,
				Retries:      retries,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated %d edges, skipped %d\n", outcome.Updated, outcome.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max edges to process (0 = all)")
	cmd.Flags().BoolVar(&dryRun, "dry", false, "compute but do not write to the database")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "leave edges that already have a duration untouched")
	cmd.Flags().IntVar(&retries, "retries", 2, "retries per edge on failure")

	return cmd
}

func newBuildMatrixCommand() *cobra.Command {
	var (
		outputPath string
		limit      int
		dryRun     bool
		retries    int
	)

	cmd := &cobra.Command{
		Use:   "build-matrix",
		Short: "Build a stop-to-stop distance matrix JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager()
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			summary, err := manager.BuildDistanceMatrix(cmd.Context(), transit.MatrixOptions{
				OutputPath: outputPath,
				Limit:      limit,
				DryRun:     dryRun,
				Retries:    retries,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Computed %d pairs (%d haversine fallbacks)\n", summary.Pairs, summary.Fallbacks)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "out", "distance_matrix.json", "output file path")
	cmd.Flags().IntVar(&limit, "limit", 0, "max pairs to process (0 = all)")
	cmd.Flags().BoolVar(&dryRun, "dry", false, "compute but do not write the output file")
	cmd.Flags().IntVar(&retries, "retries", 2, "retries per pair on failure")

	return cmd
}

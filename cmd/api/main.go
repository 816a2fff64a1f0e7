package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"transit.sullia.org/internal/app"
	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/logging"
	"transit.sullia.org/internal/restapi"
	"transit.sullia.org/internal/transit"
	"transit.sullia.org/internal/webui"
)

func main() {
	var (
		configPath  string
		port        int
		env         string
		apiKeysFlag string
		rateLimit   int
		dbPath      string
		orsAPIKey   string
		orsRefresh  int
	)

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file (flags override file values)")
	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|test|staging|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	flag.IntVar(&rateLimit, "rate-limit", 100, "Requests per second per API key (0 = unlimited)")
	flag.StringVar(&dbPath, "db", "transit.db", "Path to the SQLite database file")
	flag.StringVar(&orsAPIKey, "ors-api-key", "", "OpenRouteService API key (empty disables ORS)")
	flag.IntVar(&orsRefresh, "ors-refresh-minutes", 0, "Minutes between background ORS edge refreshes (0 disables)")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)

	var orsConfig appconf.ORSConfig

	if configPath != "" {
		fileConfig, err := appconf.LoadFileConfig(configPath)
		if err != nil {
			logger.Error("failed to load config file", "error", err, "path", configPath)
			os.Exit(1)
		}
		port = fileConfig.Server.Port
		if fileConfig.Server.Env != "" {
			env = fileConfig.Server.Env
		}
		if len(fileConfig.Server.ApiKeys) > 0 {
			apiKeysFlag = strings.Join(fileConfig.Server.ApiKeys, ",")
		}
		rateLimit = fileConfig.Server.RateLimit
		if fileConfig.DB.Path != "" {
			dbPath = fileConfig.DB.Path
		}
		orsConfig = fileConfig.ORS

		// Flags given on the command line still win over the file
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "port":
				port, _ = flagIntValue(f)
			case "env":
				env = f.Value.String()
			case "api-keys":
				apiKeysFlag = f.Value.String()
			case "rate-limit":
				rateLimit, _ = flagIntValue(f)
			case "db":
				dbPath = f.Value.String()
			}
		})
	}

	if orsAPIKey != "" {
		orsConfig.APIKey = orsAPIKey
	}
	if orsRefresh > 0 {
		orsConfig.RefreshMinutes = orsRefresh
	}

	var apiKeys []string
	if apiKeysFlag != "" {
		apiKeys = strings.Split(apiKeysFlag, ",")
		for i := range apiKeys {
			apiKeys[i] = strings.TrimSpace(apiKeys[i])
		}
	}

	environment := appconf.EnvFlagToEnvironment(env)

	transitManager, err := transit.InitManager(transit.Config{
		DBPath: dbPath,
		Env:    environment,
		ORS:    orsConfig,
	})
	if err != nil {
		logger.Error("failed to initialize transit manager", "error", err)
		os.Exit(1)
	}
	defer transitManager.Shutdown()

	if stats, err := transitManager.Statistics(context.Background()); err == nil {
		logger.Info("transit graph loaded", "stops", stats.Nodes, "edges", stats.Edges)
	}

	application := &app.Application{
		Config: appconf.Config{
			Port:      port,
			Env:       environment,
			ApiKeys:   apiKeys,
			RateLimit: rateLimit,
		},
		Logger:         logger,
		TransitManager: transitManager,
	}

	api := restapi.NewRestAPI(application)
	webUI := &webui.WebUI{TransitManager: transitManager, Env: environment}

	router := httprouter.New()
	api.SetRoutes(router)
	webUI.SetWebUIRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api.Handler(router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "addr", srv.Addr, "env", environment.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func flagIntValue(f *flag.Flag) (int, error) {
	getter, ok := f.Value.(flag.Getter)
	if !ok {
		return 0, fmt.Errorf("flag %s has no getter", f.Name)
	}
	value, ok := getter.Get().(int)
	if !ok {
		return 0, fmt.Errorf("flag %s is not an int", f.Name)
	}
	return value, nil
}

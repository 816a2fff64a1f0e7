package app

import (
	"log/slog"

	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/transit"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config         appconf.Config
	Logger         *slog.Logger
	TransitManager *transit.Manager
}

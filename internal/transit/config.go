package transit

import (
	"transit.sullia.org/internal/appconf"
)

// Config holds the settings for the transit Manager
type Config struct {
	DBPath  string
	Env     appconf.Environment
	Verbose bool
	ORS     appconf.ORSConfig
}

func (config Config) orsRefreshEnabled() bool {
	return config.ORS.APIKey != "" && config.ORS.RefreshInterval() > 0
}

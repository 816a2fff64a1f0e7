package appconf

// Environment identifies which deployment environment the application is
// running in. A few behaviors (test database guards, the debug web UI)
// depend on it.
type Environment int

const (
	Development Environment = iota
	Test
	Staging
	Production
)

// Config holds the runtime settings shared across the application.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
}

// EnvFlagToEnvironment converts an environment flag value ("development",
// "test", etc.) into an Environment. Unknown values map to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch env {
	case "test":
		return Test
	case "staging":
		return Staging
	case "production":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Staging:
		return "staging"
	case Production:
		return "production"
	default:
		return "development"
	}
}

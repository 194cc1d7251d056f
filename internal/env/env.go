package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/modelstore/internal/envvar"
)

// Environment is the runtime environment the process runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// FromEnv reads the environment from MODELSTORE_ENV, defaulting to Development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.ModelstoreEnv))
}

// Parse maps a name to an Environment. Unknown names map to Development.
func Parse(name string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(name))) {
	case Production, "prod":
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool {
	return e == Production
}

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Flag is a boolean setting parsed with ParseFlag, so "on", "1" and "yes"
// are true and "off" is false.
type Flag bool

// Settings is the configuration of the mongoutil command.
type Settings struct {
	// URI is the MongoDB connection string.
	URI string `env:"MONGOUTIL_URI" envDefault:"mongodb://localhost:27017"`
	// Database is the default database commands run against.
	Database string `env:"MONGOUTIL_DATABASE" envDefault:"admin"`
	// Timeout bounds each command.
	Timeout time.Duration `env:"MONGOUTIL_TIMEOUT" envDefault:"10s"`
	// Debug enables debug logs.
	Debug Flag `env:"MONGOUTIL_DEBUG"`
	// CanonicalIndexNames makes index-name print CanonicalName results.
	CanonicalIndexNames Flag `env:"MONGOUTIL_CANONICAL_INDEX_NAMES"`
	// RedisURL, when set, adds the Redis hash RedisKey as a setting source.
	RedisURL string `env:"MONGOUTIL_REDIS_URL"`
	RedisKey string `env:"MONGOUTIL_REDIS_KEY" envDefault:"mongoutil:settings"`
}

// LoadSettings parses Settings from the process environment layered over
// defaults. Values in overlay are used for names the environment does not
// define, which is how dotenv files are applied.
func LoadSettings(overlay MapSource) (Settings, error) {
	environ := make(map[string]string, len(overlay))
	for k, v := range overlay {
		environ[k] = v
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	var s Settings
	opts := env.Options{
		Environment: environ,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(Flag(false)): func(v string) (any, error) {
				return Flag(ParseFlag(v)), nil
			},
		},
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

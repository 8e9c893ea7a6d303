// Package config reads runtime settings from the host environment and from
// setting files. Boolean settings follow a single rule: unset, empty and
// "off" (any case) are false, every other value is true.
package config

import (
	"os"
	"strings"
)

type (
	// Source looks up a setting by name.
	Source interface {
		Lookup(name string) (string, bool)
	}

	// EnvSource reads settings from the process environment.
	EnvSource struct{}

	// MapSource serves settings from a fixed map.
	MapSource map[string]string

	// Reader consults its sources in order; the first source defining a
	// setting wins.
	Reader struct {
		sources []Source
	}
)

// Lookup implements Source.
func (EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// NewReader returns a Reader over sources. With no sources it reads the
// process environment.
func NewReader(sources ...Source) *Reader {
	if len(sources) == 0 {
		sources = []Source{EnvSource{}}
	}
	return &Reader{sources: sources}
}

// Lookup returns the value of the first source defining name.
func (r *Reader) Lookup(name string) (string, bool) {
	for _, s := range r.sources {
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// String returns the setting or def when no source defines it.
func (r *Reader) String(name, def string) string {
	if v, ok := r.Lookup(name); ok {
		return v
	}
	return def
}

// Bool returns the boolean value of the setting.
func (r *Reader) Bool(name string) bool {
	v, _ := r.Lookup(name)
	return ParseFlag(v)
}

// Bool returns the boolean value of the named environment setting.
func Bool(name string) bool {
	v, _ := os.LookupEnv(name)
	return ParseFlag(v)
}

// ParseFlag applies the boolean setting rule to s.
func ParseFlag(s string) bool {
	return s != "" && !strings.EqualFold(s, "off")
}

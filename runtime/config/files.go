package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadDotEnv reads KEY=value settings from the given dotenv files. Later
// files override earlier ones.
func LoadDotEnv(files ...string) (MapSource, error) {
	vals, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("read dotenv %s: %w", strings.Join(files, ", "), err)
	}
	return MapSource(vals), nil
}

// LoadYAML reads settings from a YAML file. Nested mappings are flattened
// into dotted names, so
//
//	mongo:
//	  native_long: on
//
// defines "mongo.native_long". Scalars are kept in their textual form.
func LoadYAML(path string) (MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML is LoadYAML for in-memory content.
func ParseYAML(data []byte) (MapSource, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	out := MapSource{}
	flatten(out, "", raw)
	return out, nil
}

func flatten(out MapSource, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch v := m[k].(type) {
		case map[string]any:
			flatten(out, name, v)
		case nil:
			out[name] = ""
		default:
			out[name] = fmt.Sprint(v)
		}
	}
}

package query

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a typed read-only analytical query. Definitions decouple
// the callers from raw SQL strings; the runner is the only place that
// touches the store's dialect.
type Definition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SQL         string `yaml:"sql"`
}

type definitionsFile struct {
	Queries []Definition `yaml:"queries"`
}

var readOnlyPrefixes = []string{"SELECT", "WITH", "EXPLAIN"}

// Validate rejects definitions that are empty or not read-only.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("query definition has no name")
	}
	sql := strings.ToUpper(strings.TrimSpace(d.SQL))
	if sql == "" {
		return fmt.Errorf("query %s has no SQL", d.Name)
	}
	for _, prefix := range readOnlyPrefixes {
		if strings.HasPrefix(sql, prefix) {
			return nil
		}
	}
	return fmt.Errorf("query %s is not read-only (must start with SELECT, WITH or EXPLAIN)", d.Name)
}

// LoadDefinitions parses the YAML definitions file.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query definitions %s: %w", path, err)
	}

	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse query definitions %s: %w", path, err)
	}
	if len(file.Queries) == 0 {
		return nil, fmt.Errorf("no queries defined in %s", path)
	}
	return file.Queries, nil
}

// Find returns the named definition from the definitions file.
func Find(path, name string) (Definition, error) {
	defs, err := LoadDefinitions(path)
	if err != nil {
		return Definition{}, err
	}
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("query %q not found in %s", name, path)
}

// FromSQLFile wraps a raw .sql file as a definition named after the file.
func FromSQLFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read SQL file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Definition{Name: name, SQL: string(data)}, nil
}

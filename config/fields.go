package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"catalog-browser/models"
)

// LoadFieldTerms reads header search-term overrides from a YAML mapping of
// field name to term, for example:
//
//	availability: Availability
//	selling_price: Price (USD)
//
// An empty path returns no overrides.
func LoadFieldTerms(path string) (map[models.Field]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read fields file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse fields file %q: %w", path, err)
	}

	known := make(map[models.Field]bool, len(models.Fields()))
	for _, f := range models.Fields() {
		known[f] = true
	}

	out := make(map[models.Field]string, len(raw))
	var unknown []string
	for k, v := range raw {
		f := models.Field(strings.TrimSpace(k))
		if !known[f] {
			unknown = append(unknown, k)
			continue
		}
		out[f] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("config: fields file %q: unknown fields %s", path, strings.Join(unknown, ", "))
	}
	return out, nil
}

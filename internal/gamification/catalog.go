package gamification

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogEntry is one achievement definition as declared in the YAML
// catalog file.
type CatalogEntry struct {
	Key         string        `yaml:"key"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Icon        string        `yaml:"icon"`
	XPReward    int           `yaml:"xp_reward"`
	Condition   ConditionKind `yaml:"condition"`
	Threshold   int           `yaml:"threshold"`
}

type catalogFile struct {
	Achievements []CatalogEntry `yaml:"achievements"`
}

// LoadCatalog reads and validates the achievement catalog.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievement catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse achievement catalog: %w", err)
	}
	seen := map[string]bool{}
	for i, entry := range file.Achievements {
		if entry.Key == "" {
			return nil, fmt.Errorf("achievement %d: missing key", i)
		}
		if seen[entry.Key] {
			return nil, fmt.Errorf("achievement %q: duplicate key", entry.Key)
		}
		seen[entry.Key] = true
		if !entry.Condition.Valid() {
			return nil, fmt.Errorf("achievement %q: unknown condition %q", entry.Key, entry.Condition)
		}
		if entry.XPReward < 0 {
			return nil, fmt.Errorf("achievement %q: negative xp_reward", entry.Key)
		}
	}
	return file.Achievements, nil
}

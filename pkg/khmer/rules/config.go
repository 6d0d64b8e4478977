package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileConfig is the top-level shape of a rules YAML file: an ordered list
// of rule objects under a "rules" key.
type fileConfig struct {
	Rules []RuleSpec `yaml:"rules"`
}

// LoadYAML parses an ordered list of rule objects from YAML, per spec §6.
func LoadYAML(data []byte) ([]RuleSpec, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing rules YAML: %w", err)
	}
	return cfg.Rules, nil
}

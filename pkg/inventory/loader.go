package inventory

import (
	"fmt"
	"os"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"

	"github.com/corefs/testbed/pkg/logging"
)

// Load reads and validates the hosting inventory at path.
func Load(path string) (*Inventory, error) {
	inv, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("inventory %s is invalid: %w", path, err)
	}
	return inv, nil
}

// LoadWithOverride reads the base inventory and, if overridePath is non-empty
// and exists, merges the override document on top of it. Non-empty override
// fields win; hosts are overridden wholesale, not merged element-wise.
// Validation runs on the merged result.
func LoadWithOverride(path, overridePath string) (*Inventory, error) {
	inv, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	if overridePath != "" {
		if _, err := os.Stat(overridePath); err == nil {
			ov, err := decodeFile(overridePath)
			if err != nil {
				return nil, err
			}
			if err := mergo.Merge(inv, *ov, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("failed to merge inventory override %s: %w", overridePath, err)
			}
			logging.S().Debugf("inventory override applied from %s", overridePath)
		}
	}

	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("inventory %s is invalid: %w", path, err)
	}
	return inv, nil
}

// Parse decodes and validates a hosting inventory from raw YAML bytes.
func Parse(src []byte) (*Inventory, error) {
	inv := new(Inventory)
	if err := yaml.Unmarshal(src, inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("inventory is invalid: %w", err)
	}
	return inv, nil
}

func decodeFile(path string) (*Inventory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory at %s: %w", path, err)
	}
	inv := new(Inventory)
	if err := yaml.Unmarshal(raw, inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory at %s: %w", path, err)
	}
	return inv, nil
}

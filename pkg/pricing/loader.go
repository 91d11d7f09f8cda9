package pricing

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// tableFile is the YAML shape of an on-disk tier table.
type tableFile struct {
	Tiers []tierSpec `yaml:"tiers"`
}

// tierSpec is one tier as written in YAML. Rates are parsed from strings so
// that file authors control the exact decimal representation.
type tierSpec struct {
	Label    string `yaml:"label"`
	MinUnits int    `yaml:"min_units"`
	MaxUnits int    `yaml:"max_units"`
	Rate     string `yaml:"rate"`
}

// LoadTable reads and validates a tier table from a YAML file.
//
// Expected shape:
//
//	tiers:
//	  - label: starter
//	    min_units: 1
//	    max_units: 9
//	    rate: "0.50"
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier table %q: %w", path, err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tier table %q: %w", path, err)
	}

	tiers := make([]Tier, 0, len(file.Tiers))
	for i, spec := range file.Tiers {
		rate, err := decimal.NewFromString(spec.Rate)
		if err != nil {
			return nil, &TableError{Index: i, Message: fmt.Sprintf("invalid rate %q: %v", spec.Rate, err)}
		}
		tiers = append(tiers, Tier{
			Label:    spec.Label,
			MinUnits: spec.MinUnits,
			MaxUnits: spec.MaxUnits,
			Rate:     rate,
		})
	}

	return NewTable(tiers)
}

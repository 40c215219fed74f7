package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is a named preset in defaults.yaml. Zero fields are left for the
// caller's flags or built-in defaults to fill. BumpPrice is a pointer because
// a free market (price 0) is a meaningful preset.
type Scenario struct {
	Description string   `yaml:"description"`
	Doses       int      `yaml:"doses"`
	DosesPerDay int      `yaml:"doses_per_day"`
	BumpPrice   *float64 `yaml:"bump_price"`
	BumpMethod  string   `yaml:"bump_method"`
	Trials      int      `yaml:"trials"`
}

// ScenarioFile is the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string              `yaml:"version"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// LoadScenarioFile reads and validates a presets file. Unknown keys are errors.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes presets YAML with strict field checking.
func ParseScenarios(data []byte) (*ScenarioFile, error) {
	var f ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse presets YAML: %w", err)
	}
	for name, s := range f.Scenarios {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return &f, nil
}

// Validate checks the fields that are set. Zero means "not specified".
func (s Scenario) Validate() error {
	if s.Doses < 0 {
		return fmt.Errorf("doses must be non-negative, got %d", s.Doses)
	}
	if s.DosesPerDay < 0 {
		return fmt.Errorf("doses_per_day must be non-negative, got %d", s.DosesPerDay)
	}
	if s.Doses > 0 && s.DosesPerDay > s.Doses {
		return fmt.Errorf("doses_per_day (%d) must not exceed doses (%d)", s.DosesPerDay, s.Doses)
	}
	if s.BumpPrice != nil && (*s.BumpPrice < 0 || math.IsNaN(*s.BumpPrice) || math.IsInf(*s.BumpPrice, 0)) {
		return fmt.Errorf("bump_price must be a non-negative number, got %f", *s.BumpPrice)
	}
	if s.BumpMethod != "" {
		if _, err := ParseBumpMethod(s.BumpMethod); err != nil {
			return err
		}
	}
	if s.Trials < 0 {
		return fmt.Errorf("trials must be non-negative, got %d", s.Trials)
	}
	return nil
}

// Lookup returns the named preset.
func (f *ScenarioFile) Lookup(name string) (Scenario, error) {
	s, ok := f.Scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown preset %q; available: %v", name, f.Names())
	}
	return s, nil
}

// Names returns the preset names, sorted.
func (f *ScenarioFile) Names() []string {
	names := make([]string, 0, len(f.Scenarios))
	for name := range f.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

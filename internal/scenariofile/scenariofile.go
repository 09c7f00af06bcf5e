// Package scenariofile loads crash scenarios from YAML or JSON files.
//
// Fields missing from a file keep their DefaultScenario values, so a file
// only has to list what differs from the wizard's starting point.
package scenariofile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
)

// Format is a scenario file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from a file extension. Anything that is not
// .json is read as YAML, which also accepts most JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads a single scenario from path.
func Load(path string) (domain.CrashScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CrashScenario{}, fmt.Errorf("scenariofile.Load: %w", err)
	}
	s, err := Decode(data, FormatOf(path))
	if err != nil {
		return domain.CrashScenario{}, fmt.Errorf("scenariofile.Load: %s: %w", path, err)
	}
	return s, nil
}

// LoadAll reads a list of scenarios from path.
func LoadAll(path string) ([]domain.CrashScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenariofile.LoadAll: %w", err)
	}
	list, err := DecodeAll(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("scenariofile.LoadAll: %s: %w", path, err)
	}
	return list, nil
}

// Decode parses one scenario over the defaults.
func Decode(data []byte, f Format) (domain.CrashScenario, error) {
	s := domain.DefaultScenario()
	if err := unmarshal(data, f, &s); err != nil {
		return domain.CrashScenario{}, err
	}
	return s, nil
}

// DecodeAll parses a list of scenarios, each over the defaults.
func DecodeAll(data []byte, f Format) ([]domain.CrashScenario, error) {
	var raw []defaulted
	if err := unmarshal(data, f, &raw); err != nil {
		return nil, err
	}
	list := make([]domain.CrashScenario, len(raw))
	for i, d := range raw {
		list[i] = domain.CrashScenario(d)
	}
	return list, nil
}

// Write encodes scenarios to path in the format its extension implies.
func Write(path string, scenarios []domain.CrashScenario) error {
	var (
		data []byte
		err  error
	)
	switch FormatOf(path) {
	case FormatJSON:
		data, err = json.MarshalIndent(scenarios, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(scenarios)
	}
	if err != nil {
		return fmt.Errorf("scenariofile.Write: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scenariofile.Write: %w", err)
	}
	return nil
}

func unmarshal(data []byte, f Format, v any) error {
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	return nil
}

// defaulted decodes a list element over DefaultScenario instead of the zero value.
type defaulted domain.CrashScenario

func (d *defaulted) UnmarshalJSON(b []byte) error {
	s := domain.DefaultScenario()
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = defaulted(s)
	return nil
}

func (d *defaulted) UnmarshalYAML(n *yaml.Node) error {
	s := domain.DefaultScenario()
	if err := n.Decode(&s); err != nil {
		return err
	}
	*d = defaulted(s)
	return nil
}

// Package schema validates crash scenario documents against the request
// contract before they are decoded.
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
)

//go:embed crash_scenario.schema.json
var scenarioSchema []byte

// ErrMalformed is returned when the document is not parseable JSON.
var ErrMalformed = errors.New("malformed JSON")

// ValidationError lists every contract violation in a document.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid crash scenario: " + strings.Join(e.Details, "; ")
}

var compiled = mustCompile(scenarioSchema)

func mustCompile(src []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(src))
	if err != nil {
		panic(fmt.Sprintf("schema: compile crash scenario schema: %v", err))
	}
	return s
}

// Source returns the raw JSON Schema document.
func Source() []byte {
	return scenarioSchema
}

// Validate checks data against the crash scenario schema. It returns an error
// wrapping ErrMalformed for unparseable input and a *ValidationError when the
// document parses but breaks the contract.
func Validate(data []byte) error {
	if !json.Valid(data) {
		return ErrMalformed
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	sort.Strings(details)
	return &ValidationError{Details: details}
}

// DecodeScenario validates data and decodes it into a CrashScenario.
func DecodeScenario(data []byte) (domain.CrashScenario, error) {
	if err := Validate(data); err != nil {
		return domain.CrashScenario{}, err
	}
	var s domain.CrashScenario
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.CrashScenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
	"gopkg.in/yaml.v3"
)

// Scenario file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const schemaURL = "scenario.schema.json"

//go:embed scenario.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func scenarioSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// FormatFromFilename maps a file extension to a scenario format.
// Unknown extensions return "".
func FormatFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	}
	return ""
}

// ParseScenario decodes and validates a scenario document.
// YAML documents are normalized to JSON first so both formats share
// the same schema check and field names.
func ParseScenario(data []byte, format string) (*service.Scenario, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", ErrInvalidScenario, err)
		}
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to convert yaml: %v", ErrInvalidScenario, err)
		}
		data = normalized
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidScenario, format)
	}

	sch, err := scenarioSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile scenario schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse json: %v", ErrInvalidScenario, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	var sc service.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return &sc, nil
}

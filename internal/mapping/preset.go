package mapping

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// Preset is a saved column mapping for a known job-board export format
type Preset struct {
	Name    string             `json:"name"`
	Source  string             `json:"source,omitempty"` // e.g. "linkedin", "indeed"
	Mapping types.FieldMapping `json:"mapping"`
}

// PresetError represents a failure loading or validating a mapping preset
type PresetError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PresetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("preset %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("preset %s: %s", e.Path, e.Message)
}

func (e *PresetError) Unwrap() error {
	return e.Cause
}

// presetSchema validates preset documents before they are trusted. Kept
// inline so presets validate without a schema file on disk; the same schema
// ships in schemas/mapping_preset.schema.json for external tooling.
const presetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "mapping"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "source": {"type": "string"},
    "mapping": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"type": "string", "minLength": 1}
    }
  },
  "additionalProperties": false
}`

// LoadPreset reads a mapping preset from a JSON file, validating it against
// the preset schema and rejecting mapping keys that are not canonical fields.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PresetError{Path: path, Message: "could not read file", Cause: err}
	}
	return ParsePreset(path, data)
}

// ParsePreset validates and decodes a preset document
func ParsePreset(path string, data []byte) (*Preset, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(presetSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, &PresetError{Path: path, Message: "schema validation failed", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, &PresetError{Path: path, Message: fmt.Sprintf("invalid preset: %v", msgs)}
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, &PresetError{Path: path, Message: "could not decode preset", Cause: err}
	}

	for field := range preset.Mapping {
		if _, ok := ConfigFor(field); !ok {
			return nil, &PresetError{Path: path, Message: fmt.Sprintf("unknown canonical field %q", field)}
		}
	}

	return &preset, nil
}

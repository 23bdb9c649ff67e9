// Package config loads vaultfill's runtime configuration: the
// optional vaultfill.yaml options file and the configuration maps
// (dotenv or YAML) whose values the resolver fills in.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/vaultfill/internal/errors"
	"github.com/systmms/vaultfill/internal/logging"
)

// Config holds the runtime configuration shared by the CLI commands.
type Config struct {
	Path        string
	Logger      *logging.Logger
	FailOnError bool
	Account     string
}

// File is the vaultfill.yaml structure.
type File struct {
	Version     int            `yaml:"version"`
	Account     string         `yaml:"account,omitempty"`
	FailOnError *bool          `yaml:"failOnError,omitempty"`
	Values      map[string]any `yaml:"values,omitempty"`
}

// fileSchema validates the decoded options file before any of its
// settings are trusted.
const fileSchema = `{
  "type": "object",
  "properties": {
    "version": {"type": "integer", "minimum": 1, "maximum": 1},
    "account": {"type": "string"},
    "failOnError": {"type": "boolean"},
    "values": {"type": "object"}
  },
  "required": ["version"],
  "additionalProperties": false
}`

// LoadFile reads and validates a vaultfill.yaml options file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return nil, dserrors.ConfigError{
			Field:      path,
			Message:    "invalid YAML: " + err.Error(),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if err := validateFile(decoded); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &file, nil
}

// validateFile checks the decoded document against the embedded
// schema, aggregating every violation into one error.
func validateFile(decoded map[string]any) error {
	jsonData, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(fileSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var violations *multierror.Error
	for _, desc := range result.Errors() {
		violations = multierror.Append(violations, fmt.Errorf("%s", desc))
	}
	return dserrors.ConfigError{
		Message:    "vaultfill.yaml is invalid: " + violations.Error(),
		Suggestion: "Supported keys: version, account, failOnError, values",
	}
}

// LoadMap reads a configuration map from a dotenv or YAML file,
// selected by extension (.yaml/.yml vs. everything else).
func LoadMap(path string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLMap(path)
	default:
		return loadEnvMap(path)
	}
}

func loadYAMLMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, dserrors.ConfigError{
			Field:   path,
			Message: "invalid YAML: " + err.Error(),
		}
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}
	return cfg, nil
}

// loadEnvMap parses a dotenv file: KEY=VALUE lines, # comments,
// optional single or double quotes around the value.
func loadEnvMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := make(map[string]any)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, dserrors.ConfigError{
				Field:   fmt.Sprintf("%s:%d", path, i+1),
				Message: "expected KEY=VALUE",
			}
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		cfg[key] = value
	}
	return cfg, nil
}

// RenderEnv serializes a configuration map back to dotenv text,
// sorted by key. Non-string values are skipped; values containing
// whitespace or quotes are double-quoted.
func RenderEnv(cfg map[string]any) string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		if _, ok := cfg[k].(string); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := cfg[k].(string)
		if strings.ContainsAny(v, " \t\n\"'") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, "%s=%s\n", k, v)
	}
	return b.String()
}

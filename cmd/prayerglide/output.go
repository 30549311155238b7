package main

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var title = cases.Title(language.English)

// encode writes v as JSON or YAML. It reports false for the text format,
// which each command renders itself.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return true, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

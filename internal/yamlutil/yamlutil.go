package yamlutil

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Marshal renders v as YAML text for previews and diffs.
func Marshal(v any) (string, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("render yaml: %w", err)
	}
	return string(raw), nil
}

// Unmarshal parses YAML text into generic Go values.
func Unmarshal(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return v, nil
}

// ValidateSyntax reports whether s is well-formed YAML.
func ValidateSyntax(s string) error {
	var v any
	return yaml.Unmarshal([]byte(s), &v)
}

// Diff renders both configs as YAML and returns a unified diff from current
// to proposed. Empty string means no difference.
func Diff(current, proposed any) (string, error) {
	a, err := Marshal(current)
	if err != nil {
		return "", err
	}
	b, err := Marshal(proposed)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  3,
	})
}

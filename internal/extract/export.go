// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vibration-engine/pkg/types"
)

func checkFormat(f types.OutputFormat) error {
	switch f {
	case types.FormatJSON, types.FormatYAML:
		return nil
	}
	return fmt.Errorf("unsupported format %q: use json or yaml", f)
}

// FormatForPath picks the document format from a file extension: .yaml and
// .yml are YAML, anything else is JSON.
func FormatForPath(path string) types.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	}
	return types.FormatJSON
}

// EncodePatterns serializes patterns with two-space indentation. JSON output
// keeps non-ASCII and HTML characters literal, including U+2028 and U+2029.
func EncodePatterns(patterns []types.Pattern, format types.OutputFormat) ([]byte, error) {
	if patterns == nil {
		patterns = []types.Pattern{}
	}

	var buf bytes.Buffer
	switch format {
	case types.FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(patterns); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return unescapeLineSeparators(buf.Bytes()), nil
	case types.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(patterns); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return nil, checkFormat(format)
	}
	return buf.Bytes(), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into the raw characters. An escaped backslash followed
// by the same text is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		switch rest := data[i:]; {
		case bytes.HasPrefix(rest, []byte(`\u2028`)):
			out = append(out, "\u2028"...)
			i += 5
		case bytes.HasPrefix(rest, []byte(`\u2029`)):
			out = append(out, "\u2029"...)
			i += 5
		default:
			out = append(out, data[i], data[i+1])
			i++
		}
	}
	return out
}

// WritePatterns encodes patterns in the given format and writes them to path,
// creating missing parent directories.
func WritePatterns(path string, patterns []types.Pattern, format types.OutputFormat) error {
	data, err := EncodePatterns(patterns, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadPatterns loads a pattern document written by WritePatterns. The format
// is chosen from the file extension.
func ReadPatterns(path string) ([]types.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns %s: %w", path, err)
	}

	var patterns []types.Pattern
	switch FormatForPath(path) {
	case types.FormatYAML:
		err = yaml.Unmarshal(data, &patterns)
	default:
		err = json.Unmarshal(data, &patterns)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing patterns %s: %w", path, err)
	}
	return patterns, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/vibration-engine/internal/extract"
	"github.com/pdiddy/vibration-engine/pkg/types"
)

const exportLimit = 100000

// Export writes the catalog (or the subset matching opts) to
// <catalog dir>/export.json or export.yaml and returns the path written.
// Unless opts.MaxResults is set, every matching pattern is exported.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format types.OutputFormat) (string, error) {
	var name string
	switch format {
	case types.FormatJSON, "":
		format, name = types.FormatJSON, "export.json"
	case types.FormatYAML:
		name = "export.yaml"
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	patterns, err := s.Retrieve(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := extract.WritePatterns(path, patterns, format); err != nil {
		return "", err
	}
	return path, nil
}

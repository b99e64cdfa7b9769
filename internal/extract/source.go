// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"
	"strings"
)

// LoadSource reads the file at path and returns its contents as text.
// Byte sequences that are not valid UTF-8 are dropped rather than reported.
func LoadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading source %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

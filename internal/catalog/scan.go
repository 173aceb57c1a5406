package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultImagePattern matches the image formats the thumbnail loader reads.
const DefaultImagePattern = "**/*.{png,jpg,jpeg,gif,svg}"

// ScanImages returns the absolute paths of the files under dir matching
// pattern, sorted.
func ScanImages(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultImagePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid image pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("failed to scan images in %s: %w", dir, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	slices.Sort(paths)
	return paths, nil
}

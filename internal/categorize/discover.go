package categorize

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches chequing exports for every provider under data/.
const DefaultPattern = "data/*/chequing/*.csv"

// Discover returns the regular files under root matching a doublestar
// pattern, sorted by path.
func Discover(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s in %s: %w", pattern, root, err)
	}

	var files []string
	for _, match := range matches {
		info, err := fs.Stat(fsys, match)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", match, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(match)))
	}
	slices.Sort(files)
	return files, nil
}

package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiscoverSource finds the export file for pattern in dir. When several
// files match, the most recently modified one wins; ties go to the
// lexically last name so the choice is stable.
func DiscoverSource(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}

	var (
		best    string
		bestMod int64
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		mod := info.ModTime().UnixNano()
		if best == "" || mod > bestMod || (mod == bestMod && m > best) {
			best, bestMod = m, mod
		}
	}

	if best == "" {
		return "", fmt.Errorf("%w: no %s in %s", ErrSourceNotFound, pattern, dir)
	}
	return best, nil
}

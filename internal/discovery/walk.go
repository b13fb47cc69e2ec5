package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
)

// globRecursive matches pattern (a filepath.Match pattern applied to the
// base name only) against every file under root, descending into
// subdirectories. This is the Go-native stand-in for Python's
// glob.glob(os.path.join(root, "**", pattern), recursive=True).
func globRecursive(root, pattern string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, don't abort the whole walk
		}
		if d.IsDir() {
			return nil
		}
		ok, matchErr := filepath.Match(pattern, d.Name())
		if matchErr == nil && ok {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

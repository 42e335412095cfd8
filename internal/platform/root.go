package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// MarkerDir is the per-project directory holding config and local notes.
const MarkerDir = ".scribble"

// FindRoot looks upwards from startDir for a directory containing a MarkerDir
// directory and returns its absolute path. A plain file named MarkerDir does
// not mark a project.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasMarker(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory above %s", MarkerDir, abs)
}

func hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerDir))
	return err == nil && info.IsDir()
}

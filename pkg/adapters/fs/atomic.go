package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-flight slot writes. The watcher and Keys skip these files.
const TempFilePrefix = "scribble-tmp-"

// replaceSlotFile swaps the slot file for a fully written copy of data.
// Readers see either the previous value or the new one, never a torn write.
func replaceSlotFile(target string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage slot: %w", err)
	}
	staged := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(staged)
		}
	}()

	_, werr := tmp.Write(data)
	serr := tmp.Sync()
	cerr := tmp.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		return fmt.Errorf("failed to write staged slot: %w", err)
	}

	if err := os.Chmod(staged, perm); err != nil {
		return fmt.Errorf("failed to chmod staged slot: %w", err)
	}
	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("failed to publish slot %s: %w", filepath.Base(target), err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

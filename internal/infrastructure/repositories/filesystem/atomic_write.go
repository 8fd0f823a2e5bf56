package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// WriteFileAtomic writes data to a temporary sibling of path and renames it
// over path, so readers never see a partial file. Missing parent
// directories are created.
func WriteFileAtomic(fs billy.Filesystem, path string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	tmpPath := path + ".tmp"
	if err := util.WriteFile(fs, tmpPath, data, perm); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

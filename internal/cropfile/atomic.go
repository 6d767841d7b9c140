package cropfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// WriteFileAtomic writes data to path using the temp-file, fsync, rename
// pattern, so readers see either the old file or the new one.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmpName, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		removeTemp(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// CreateFileAtomic writes data to a new file at path. It fails with
// types.ErrDestinationExists, leaving the existing file untouched, when path
// already exists. The file appears complete or not at all.
func CreateFileAtomic(path string, data []byte, perm fs.FileMode) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%w: %s", types.ErrDestinationExists, path)
	}

	tmpName, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	defer removeTemp(tmpName)

	// A hard link never replaces an existing name.
	if err := os.Link(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", types.ErrDestinationExists, path)
		}
		return fmt.Errorf("linking new file: %w", err)
	}
	return nil
}

// writeTemp writes data to a synced temp file next to path and returns its
// name. The temp file is removed on failure.
func writeTemp(path string, data []byte, perm fs.FileMode) (string, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".crop-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		removeTemp(tmpName)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		removeTemp(tmpName)
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		removeTemp(tmpName)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		removeTemp(tmpName)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return tmpName, nil
}

func removeTemp(name string) {
	if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove temporary file", "path", name, "error", err)
	}
}

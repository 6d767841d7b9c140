// Package cropfile reads and writes crop documents on disk. Every write
// replaces the whole file atomically.
package cropfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/crops/pkg/record"
)

// Ext is the file extension of crop documents.
const Ext = ".crop"

const filePerm = 0o644

// Read loads the crop document at path.
func Read(path string) (*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rec, err := record.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rec, nil
}

// Save rewrites the crop document at path from rec.
func Save(path string, rec *record.Record) error {
	data, err := record.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	perm := os.FileMode(filePerm)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := WriteFileAtomic(path, data, perm); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Create writes rec to a new file at path. It returns an error wrapping
// types.ErrDestinationExists when path already exists.
func Create(path string, rec *record.Record) error {
	data, err := record.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return CreateFileAtomic(path, data, filePerm)
}

// PathFor returns the file name of a new crop. An explicit output is used as
// given; otherwise the crop name with spaces removed. Either way the result
// ends in exactly one ".crop". Relative results are placed under dir when
// dir is not empty.
func PathFor(name, output, dir string) string {
	p := output
	if p == "" {
		p = strings.ReplaceAll(name, " ", "")
	}
	p = strings.TrimSuffix(p, Ext) + Ext
	return Resolve(p, dir)
}

// Resolve places a relative path under dir. Absolute paths, and any path
// when dir is empty, are returned unchanged.
func Resolve(path, dir string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

package accel

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"officekeys/internal/mapping"
)

// Result describes a generated package.
type Result struct {
	Path    string
	Items   []Item
	Skipped []Skipped
}

// WritePackage writes the zip archive for items to w. The mimetype entry
// comes first and is stored uncompressed.
func WritePackage(w io.Writer, items []Item) error {
	zw := zip.NewWriter(w)

	entries := []struct {
		name   string
		method uint16
		data   []byte
	}{
		{MimetypePath, zip.Store, []byte(MimeType)},
		{DocumentPath, zip.Deflate, EncodeDocument(items)},
		{ManifestPath, zip.Deflate, Manifest()},
	}

	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		if err != nil {
			zw.Close()
			return fmt.Errorf("create %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			zw.Close()
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

// WritePackageFile writes the package to path, replacing any existing file.
// The archive is assembled in a temporary file next to path and renamed into
// place once complete.
func WritePackageFile(path string, items []Item) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".officekeys-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := WritePackage(tmp, items); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod package: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename package: %w", err)
	}
	return nil
}

// Generate compiles records and writes the package to path. Records with
// unparseable shortcuts are reported in Result.Skipped and do not fail the
// call.
func Generate(path string, records []mapping.Record) (*Result, error) {
	items, skipped := Compile(records)
	if err := WritePackageFile(path, items); err != nil {
		return nil, err
	}
	return &Result{Path: path, Items: items, Skipped: skipped}, nil
}

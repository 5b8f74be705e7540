package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Archive keeps copies of generated reports on the local filesystem so a
// report served once can be re-read later without recomputing it.
type Archive struct {
	dir string
}

// NewArchive creates an Archive rooted at dir.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Save writes a report under name. Writes go through a temp file in the
// same directory followed by a rename, so readers never see a partial
// report.
func (a *Archive) Save(ctx context.Context, name string, data []byte) error {
	fullPath := filepath.Join(a.dir, name)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, "report-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, bytes.NewReader(data)); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to sync report: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile.Name(), fullPath); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to rename report to %s: %w", fullPath, err)
	}

	return nil
}

// Open returns the archived report stored under name.
func (a *Archive) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report %s not found", name)
		}
		return nil, fmt.Errorf("failed to open report %s: %w", name, err)
	}
	return file, nil
}

// List returns the names of archived reports matching prefix, sorted.
func (a *Archive) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string

	err := filepath.Walk(a.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(a.dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes an archived report.
func (a *Archive) Delete(ctx context.Context, name string) error {
	if err := os.Remove(filepath.Join(a.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report %s not found", name)
		}
		return fmt.Errorf("failed to delete report %s: %w", name, err)
	}
	return nil
}

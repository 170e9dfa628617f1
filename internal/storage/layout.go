package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maltedev/place-archiver/internal/models"
)

const (
	// CompanyFolder is the per-store subfolder every mode writes into.
	CompanyFolder = "업체"

	unknownName  = "unknown"
	invalidChars = `<>:"/\|?*`
)

var ErrNoStoreFolder = errors.New("store folder does not exist")

// Sanitize makes a spreadsheet value usable as a single path component.
// Missing values map to "unknown".
func Sanitize(name string) string {
	if strings.TrimSpace(name) == "" {
		return unknownName
	}
	for _, c := range invalidChars {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	return strings.TrimSpace(name)
}

// StoreKey identifies a store across runs.
func StoreKey(store models.Store) string {
	return strings.Join([]string{
		Sanitize(store.Region),
		Sanitize(store.RegionDetail),
		Sanitize(store.Name),
	}, "/")
}

type Layout struct {
	BaseDir string
}

func NewLayout(baseDir string) *Layout {
	return &Layout{BaseDir: baseDir}
}

func (l *Layout) StoreDir(store models.Store) string {
	return filepath.Join(l.BaseDir,
		Sanitize(store.Region),
		Sanitize(store.RegionDetail),
		Sanitize(store.Name),
	)
}

func (l *Layout) CompanyDir(store models.Store) string {
	return filepath.Join(l.StoreDir(store), CompanyFolder)
}

// EnsureCompanyDir creates the 업체 folder of an existing store folder. When the
// store folder is missing nothing is created and ErrNoStoreFolder is returned.
func (l *Layout) EnsureCompanyDir(store models.Store) (string, error) {
	storeDir := l.StoreDir(store)

	info, err := os.Stat(storeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", storeDir, ErrNoStoreFolder)
		}
		return "", fmt.Errorf("failed to stat store folder: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", storeDir, ErrNoStoreFolder)
	}

	companyDir := filepath.Join(storeDir, CompanyFolder)
	if err := os.MkdirAll(companyDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create company folder: %w", err)
	}

	return companyDir, nil
}

// CreateStoreDir creates the whole region/detail/store tree.
func (l *Layout) CreateStoreDir(store models.Store) (string, error) {
	dir := l.StoreDir(store)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create store folder: %w", err)
	}
	return dir, nil
}

// HasFilePrefix reports whether dir holds a file whose name starts with prefix.
func HasFilePrefix(dir, prefix string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return true, nil
		}
	}
	return false, nil
}

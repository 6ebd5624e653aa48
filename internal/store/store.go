package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rogersnm/doctag/internal/id"
)

const (
	ConfigFileName = "config.json"
	DocsDirName    = "docs"
)

// Layout resolves every path under a managed root. It is the only place
// that knows the on-disk structure.
type Layout struct {
	Root string
}

func NewLayout(root string) Layout {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return Layout{Root: root}
}

func (l Layout) ConfigPath() string {
	return filepath.Join(l.Root, ConfigFileName)
}

func (l Layout) DocsDir() string {
	return filepath.Join(l.Root, DocsDirName)
}

func (l Layout) DocDir(docID int) string {
	return filepath.Join(l.DocsDir(), id.Format(docID))
}

// Prepare creates the root and docs directories and an empty config file
// when they are missing. Existing content is left alone.
func (l Layout) Prepare() error {
	if err := os.MkdirAll(l.DocsDir(), 0755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}
	if _, err := os.Stat(l.ConfigPath()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config: %w", err)
	}
	data, err := encodeConfig(configFile{})
	if err != nil {
		return err
	}
	return writeFileAtomic(l.ConfigPath(), data)
}

// Repository bundles the config store and the catalogue of one managed root.
type Repository struct {
	Layout    Layout
	Config    *ConfigStore
	Catalogue *Catalogue
}

// Open prepares root, loads its config and scans its documents.
func Open(root string, logger *slog.Logger) (*Repository, error) {
	layout := NewLayout(root)
	if err := layout.Prepare(); err != nil {
		return nil, err
	}
	r := &Repository{
		Layout:    layout,
		Config:    NewConfigStore(layout.ConfigPath(), logger),
		Catalogue: NewCatalogue(layout, logger),
	}
	r.Config.Load()
	if err := r.Catalogue.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// writeFileAtomic replaces path with data via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating parent dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/rogersnm/doctag/internal/id"
	"github.com/rogersnm/doctag/internal/model"
)

// Catalogue is the in-memory set of committed documents under a docs root.
// It is only ever replaced wholesale by Reload.
type Catalogue struct {
	layout Layout
	log    *slog.Logger
	docs   []model.Document
	next   int
}

func NewCatalogue(layout Layout, logger *slog.Logger) *Catalogue {
	return &Catalogue{
		layout: layout,
		log:    loggerOrDefault(logger),
		next:   1,
	}
}

// Scan reads every immediate sub-directory of docsRoot that holds a
// readable sidecar. Directories without one are skipped. It also returns the
// number of sub-directories seen, readable or not. Documents come back in id
// order, with non-numeric folders last.
func Scan(docsRoot string, logger *slog.Logger) ([]model.Document, int, error) {
	logger = loggerOrDefault(logger)
	entries, err := os.ReadDir(docsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading %s: %w", docsRoot, err)
	}

	var docs []model.Document
	dirs := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirs++
		dir := filepath.Join(docsRoot, e.Name())
		d, err := ReadSidecar(dir)
		if err != nil {
			logger.Debug("skipping document folder", "dir", dir, "error", err)
			continue
		}
		if n, err := id.Parse(e.Name()); err == nil {
			d.ID = n
		}
		docs = append(docs, d)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].ID, docs[j].ID
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	return docs, dirs, nil
}

// Reload re-scans the docs root and replaces the catalogue.
func (c *Catalogue) Reload() error {
	docs, dirs, err := Scan(c.layout.DocsDir(), c.log)
	if err != nil {
		return err
	}
	c.docs = docs
	c.next = dirs + 1
	c.log.Debug("catalogue loaded", "documents", len(docs), "folders", dirs)
	return nil
}

// Documents returns a copy of the catalogued documents in scan order.
func (c *Catalogue) Documents() []model.Document {
	out := make([]model.Document, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.Clone()
	}
	return out
}

func (c *Catalogue) Len() int {
	return len(c.docs)
}

// NextDocID is the id the next allocated folder will try first.
func (c *Catalogue) NextDocID() int {
	return c.next
}

func (c *Catalogue) Get(docID int) (model.Document, error) {
	for _, d := range c.docs {
		if d.ID == docID && docID > 0 {
			return d.Clone(), nil
		}
	}
	return model.Document{}, fmt.Errorf("document %d: %w", docID, ErrNotFound)
}

// Allocate creates the next free numbered folder and returns its id and path.
// Ids whose folder already exists are passed over.
func (c *Catalogue) Allocate() (int, string, error) {
	if err := os.MkdirAll(c.layout.DocsDir(), 0755); err != nil {
		return 0, "", fmt.Errorf("creating docs directory: %w", err)
	}
	for {
		n := c.next
		c.next++
		dir := c.layout.DocDir(n)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return n, dir, nil
		}
		if errors.Is(err, fs.ErrExist) {
			c.log.Debug("document folder taken, trying next id", "id", n)
			continue
		}
		return 0, "", fmt.Errorf("creating document folder %s: %w", dir, err)
	}
}

// Update rewrites the sidecar of an existing document, renaming the stored
// file when FileName changed, then reloads.
func (c *Catalogue) Update(d model.Document) (model.Document, error) {
	current, err := c.Get(d.ID)
	if err != nil {
		return model.Document{}, err
	}
	if err := d.Validate(); err != nil {
		return model.Document{}, err
	}
	dir := c.layout.DocDir(d.ID)
	if d.FileName != current.FileName {
		target := filepath.Join(dir, d.FileName)
		if _, err := os.Stat(target); err == nil {
			return model.Document{}, fmt.Errorf("renaming document %d: %s already exists", d.ID, d.FileName)
		}
		if err := os.Rename(current.FilePath, target); err != nil {
			return model.Document{}, fmt.Errorf("renaming document %d: %w", d.ID, err)
		}
	}
	if err := WriteSidecar(dir, d); err != nil {
		return model.Document{}, err
	}
	if err := c.Reload(); err != nil {
		return model.Document{}, err
	}
	return c.Get(d.ID)
}

// Delete removes a document folder and reloads.
func (c *Catalogue) Delete(docID int) error {
	if _, err := c.Get(docID); err != nil {
		return err
	}
	if err := os.RemoveAll(c.layout.DocDir(docID)); err != nil {
		return fmt.Errorf("deleting document %d: %w", docID, err)
	}
	return c.Reload()
}

// Package ingest stages externally selected files, lets the caller assign
// tags, comments and names, and commits them into numbered folders.
package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/rogersnm/doctag/internal/model"
	"github.com/rogersnm/doctag/internal/store"
)

// ProgressFunc is called after each document is processed.
type ProgressFunc func(done, total int)

// CommitSummary lists the documents stored by a commit, with their ids.
type CommitSummary struct {
	Committed []model.Document
}

// Batch is one upload session: the pending documents and the catalogue
// they will be committed into.
type Batch struct {
	catalogue *store.Catalogue
	log       *slog.Logger
	pending   []model.Document
}

func NewBatch(catalogue *store.Catalogue, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{catalogue: catalogue, log: logger}
}

// Stage adds a pending document per path not already staged and returns how
// many were added.
func (b *Batch) Stage(paths ...string) int {
	added := 0
	for _, p := range paths {
		if p == "" || b.staged(p) {
			continue
		}
		b.pending = append(b.pending, model.NewPending(p))
		added++
	}
	return added
}

func (b *Batch) staged(path string) bool {
	for _, d := range b.pending {
		if d.FilePath == path {
			return true
		}
	}
	return false
}

func (b *Batch) Len() int {
	return len(b.pending)
}

// Pending returns a copy of the staged documents in staging order.
func (b *Batch) Pending() []model.Document {
	out := make([]model.Document, len(b.pending))
	for i, d := range b.pending {
		out[i] = d.Clone()
	}
	return out
}

// SetTags replaces the tags of the selected documents with the tokens of
// text. Blank text clears them.
func (b *Batch) SetTags(indices []int, text string) {
	tags := model.SplitQuery(text)
	b.each(indices, func(d *model.Document) {
		d.Tags = append([]string(nil), tags...)
	})
}

func (b *Batch) SetComment(indices []int, text string) {
	b.each(indices, func(d *model.Document) {
		d.Comment = text
	})
}

func (b *Batch) Rename(indices []int, name string) {
	b.each(indices, func(d *model.Document) {
		d.FileName = name
	})
}

// Remove drops the selected documents from the batch.
func (b *Batch) Remove(indices []int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	kept := b.pending[:0]
	for i, d := range b.pending {
		if !drop[i] {
			kept = append(kept, d)
		}
	}
	b.pending = slices.Clip(kept)
}

// Clear discards the batch.
func (b *Batch) Clear() {
	b.pending = nil
}

// each applies fn to every in-range selected document.
func (b *Batch) each(indices []int, fn func(*model.Document)) {
	for _, i := range indices {
		if i >= 0 && i < len(b.pending) {
			fn(&b.pending[i])
		}
	}
}

// Validate checks the commit preconditions without touching disk.
func (b *Batch) Validate() error {
	if len(b.pending) == 0 {
		return ErrEmptyBatch
	}
	for i, d := range b.pending {
		if !d.HasTags() {
			return &MissingTagError{Index: i}
		}
	}
	for i, d := range b.pending {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}

// Commit stores every staged document in a fresh numbered folder and
// reloads the catalogue. It is not atomic: on a *CopyError the documents
// before the failing one stay committed and are removed from the batch.
func (b *Batch) Commit(progress ProgressFunc) (CommitSummary, error) {
	var summary CommitSummary
	if err := b.Validate(); err != nil {
		return summary, err
	}

	total := len(b.pending)
	var commitErr error
	done := 0
	for i, d := range b.pending {
		stored, err := b.store(d)
		if err != nil {
			commitErr = &CopyError{Index: i, Path: d.FilePath, Err: err}
			break
		}
		summary.Committed = append(summary.Committed, stored)
		done++
		b.log.Debug("document committed", "id", stored.ID, "file", stored.FileName)
		if progress != nil {
			progress(done, total)
		}
	}
	b.pending = slices.Clone(b.pending[done:])
	if len(b.pending) == 0 {
		b.pending = nil
	}

	if err := b.catalogue.Reload(); err != nil && commitErr == nil {
		commitErr = fmt.Errorf("reloading catalogue: %w", err)
	}
	return summary, commitErr
}

// store copies one document into a newly allocated folder with its sidecar.
func (b *Batch) store(d model.Document) (model.Document, error) {
	docID, dir, err := b.catalogue.Allocate()
	if err != nil {
		return model.Document{}, err
	}
	target := filepath.Join(dir, d.FileName)
	if err := copyFile(d.FilePath, target); err != nil {
		os.RemoveAll(dir)
		return model.Document{}, err
	}
	stored := d.Clone()
	stored.ID = docID
	stored.FilePath = target
	if err := store.WriteSidecar(dir, stored); err != nil {
		os.RemoveAll(dir)
		return model.Document{}, err
	}
	return stored, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}

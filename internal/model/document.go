package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is one catalogued or pending file. ID is zero until the document
// has been committed into a numbered folder.
type Document struct {
	ID       int      `yaml:"id,omitempty"`
	FilePath string   `yaml:"-"`
	FileName string   `yaml:"filename"`
	Tags     []string `yaml:"tags"`
	Comment  string   `yaml:"-"`
}

// NewPending returns a pending document for the file at path, named after its basename.
func NewPending(path string) Document {
	return Document{
		FilePath: path,
		FileName: filepath.Base(path),
	}
}

func (d *Document) Committed() bool {
	return d.ID > 0
}

func (d *Document) HasTags() bool {
	return len(d.Tags) > 0
}

// HasTag reports whether tag is an exact element of the document's tags.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (d *Document) Validate() error {
	if d.FileName == "" {
		return fmt.Errorf("document filename is required")
	}
	if d.FileName == "." || d.FileName == ".." || strings.ContainsAny(d.FileName, `/\`) {
		return fmt.Errorf("invalid document filename %q", d.FileName)
	}
	if d.FileName == SidecarName {
		return fmt.Errorf("document filename %q is reserved", d.FileName)
	}
	return nil
}

// Clone returns a copy that shares no slices with d.
func (d Document) Clone() Document {
	if d.Tags != nil {
		d.Tags = append([]string(nil), d.Tags...)
	}
	return d
}

// SidecarName is the metadata file stored next to every committed document.
const SidecarName = "info.json"

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rogersnm/doctag/internal/model"
)

// sidecar is the on-disk shape of info.json.
type sidecar struct {
	Comment  string   `json:"comment"`
	FileName string   `json:"filename"`
	Tags     []string `json:"tags"`
}

// ReadSidecar loads the metadata stored in dir. FilePath is resolved
// against dir; ID is left for the caller. Fields of the wrong type are
// ignored, but the filename must be a non-empty string.
func ReadSidecar(dir string) (model.Document, error) {
	path := filepath.Join(dir, model.SidecarName)
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.Document{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	var name string
	if !decodeField(fields, "filename", &name) || name == "" {
		return model.Document{}, fmt.Errorf("parsing %s: filename is missing", path)
	}
	d := model.Document{
		FileName: name,
		FilePath: filepath.Join(dir, name),
		Tags:     stringList(fields["tags"]),
	}
	decodeField(fields, "comment", &d.Comment)
	return d, nil
}

// decodeField decodes fields[key] into v and reports whether it fit.
// A missing or mistyped key leaves v untouched.
func decodeField(fields map[string]json.RawMessage, key string, v any) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// stringList decodes a JSON array, keeping only its string elements.
// Anything other than an array yields nil.
func stringList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// WriteSidecar stores d's metadata in dir/info.json.
func WriteSidecar(dir string, d model.Document) error {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	sc := sidecar{
		Comment:  d.Comment,
		FileName: d.FileName,
		Tags:     tags,
	}
	data, err := json.MarshalIndent(sc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling sidecar: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(filepath.Join(dir, model.SidecarName), data)
}

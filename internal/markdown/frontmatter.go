package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/rogersnm/doctag/internal/model"
	"gopkg.in/yaml.v3"
)

// Parse reads YAML frontmatter and body from r into T.
func Parse[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// Marshal serializes meta as YAML frontmatter followed by body.
func Marshal[T any](meta T, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// EncodeDocument writes d in the editable form: id, filename and tags as
// frontmatter, the comment as the body.
func EncodeDocument(d model.Document) ([]byte, error) {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return Marshal(d, d.Comment)
}

// DecodeDocument reads an edited document back. The id is taken from the
// frontmatter; callers must check it still names the document they checked out.
func DecodeDocument(r io.Reader) (model.Document, error) {
	d, body, err := Parse[model.Document](r)
	if err != nil {
		return model.Document{}, err
	}
	d.Comment = body
	d.FileName = strings.TrimSpace(d.FileName)
	var tags []string
	for _, t := range d.Tags {
		if t = model.Simplify(t); t != "" {
			tags = append(tags, t)
		}
	}
	d.Tags = tags
	return d, nil
}

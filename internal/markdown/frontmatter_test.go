package markdown

import (
	"strings"
	"testing"

	"github.com/rogersnm/doctag/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMeta struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags,omitempty"`
}

func TestParse_AllFields(t *testing.T) {
	input := `---
name: "Quarterly report"
tags:
  - finance
  - 2024
---

This is the body.
`
	meta, body, err := Parse[testMeta](strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report", meta.Name)
	assert.Equal(t, []string{"finance", "2024"}, meta.Tags)
	assert.Equal(t, "This is the body.", body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	meta, body, err := Parse[testMeta](strings.NewReader("Just some plain text."))
	require.NoError(t, err)
	assert.Equal(t, "", meta.Name)
	assert.Equal(t, "Just some plain text.", body)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, _, err := Parse[testMeta](strings.NewReader("---\n{{invalid yaml\n---\n"))
	assert.Error(t, err)
}

func TestMarshal_PreservesBody(t *testing.T) {
	body := "Line 1\n\n**Bold** and *italic*"
	data, err := Marshal(testMeta{Name: "x"}, body)
	require.NoError(t, err)

	_, parsedBody, err := Parse[testMeta](strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, body, parsedBody)
}

func TestEncodeDocument_Shape(t *testing.T) {
	data, err := EncodeDocument(model.Document{
		ID:       3,
		FilePath: "/root/docs/3/a.pdf",
		FileName: "a.pdf",
		Tags:     []string{"x", "y"},
		Comment:  "scanned copy",
	})
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, "---\n"))
	assert.Contains(t, s, "id: 3\n")
	assert.Contains(t, s, "filename: a.pdf\n")
	assert.Contains(t, s, "scanned copy\n")
	assert.NotContains(t, s, "/root/docs")
}

func TestEncodeDocument_NoTags(t *testing.T) {
	data, err := EncodeDocument(model.Document{ID: 1, FileName: "a.pdf"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "tags: []\n")
}

func TestDocument_RoundTrip(t *testing.T) {
	original := model.Document{
		ID:       7,
		FileName: "report 2024.pdf",
		Tags:     []string{"finance", "q1"},
		Comment:  "first line\nsecond line",
	}
	data, err := EncodeDocument(original)
	require.NoError(t, err)

	got, err := DecodeDocument(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestDecodeDocument_CleansTags(t *testing.T) {
	input := "---\nid: 2\nfilename: \" b.txt \"\ntags: [\"  a   b \", \"\", c]\n---\n"
	got, err := DecodeDocument(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, "b.txt", got.FileName)
	assert.Equal(t, []string{"a b", "c"}, got.Tags)
	assert.Equal(t, "", got.Comment)
}

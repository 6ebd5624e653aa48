package model

import (
	"fmt"
	"slices"
	"sort"
)

// TagConfig holds the default tag list and the named tag templates.
type TagConfig struct {
	DefaultTags []string
	Templates   map[string][]string
}

func NewTagConfig() TagConfig {
	return TagConfig{Templates: make(map[string][]string)}
}

// Clone returns a deep copy, with a non-nil Templates map.
func (c TagConfig) Clone() TagConfig {
	out := TagConfig{
		DefaultTags: append([]string(nil), c.DefaultTags...),
		Templates:   make(map[string][]string, len(c.Templates)),
	}
	for name, tags := range c.Templates {
		out.Templates[name] = append([]string(nil), tags...)
	}
	return out
}

// SortedTags returns DefaultTags in persisted order.
func (c TagConfig) SortedTags() []string {
	tags := append([]string(nil), c.DefaultTags...)
	sort.Strings(tags)
	return tags
}

func (c TagConfig) TemplateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c TagConfig) IsTemplate(name string) bool {
	_, ok := c.Templates[name]
	return ok
}

// Entries lists what a tag picker offers: default tags, then template names.
func (c TagConfig) Entries() []string {
	return append(c.SortedTags(), c.TemplateNames()...)
}

// Expand applies a picker entry to the current entry text. A template
// replaces the text with its tags; a plain tag is appended with Delimiter.
func (c TagConfig) Expand(current, key string) string {
	if key == "" {
		return current
	}
	if tags, ok := c.Templates[key]; ok {
		return JoinTags(tags)
	}
	if current == "" {
		return key
	}
	return current + Delimiter + key
}

// AddTags merges the tags in text into DefaultTags, keeping the list sorted
// and free of duplicates. It returns how many tags were not already present.
func (c *TagConfig) AddTags(text string) (int, error) {
	tags := SplitQuery(text)
	if len(tags) == 0 {
		return 0, fmt.Errorf("tags are empty")
	}
	added := 0
	for i, t := range tags {
		if !slices.Contains(c.DefaultTags, t) && !slices.Contains(tags[:i], t) {
			added++
		}
	}
	for _, t := range c.DefaultTags {
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	c.DefaultTags = slices.Compact(tags)
	return added, nil
}

// SetTemplates assigns the same sorted tag list to every template named in
// namesText, replacing existing templates with those names.
func (c *TagConfig) SetTemplates(namesText, tagsText string) error {
	names := SplitQuery(namesText)
	tags := SplitQuery(tagsText)
	if len(names) == 0 || len(tags) == 0 {
		return fmt.Errorf("templates are empty")
	}
	sort.Strings(tags)
	if c.Templates == nil {
		c.Templates = make(map[string][]string)
	}
	for _, name := range names {
		c.Templates[name] = append([]string(nil), tags...)
	}
	return nil
}

// RemoveTags deletes the default tags named in names, leaving templates
// alone. It returns how many tags were removed.
func (c *TagConfig) RemoveTags(names ...string) int {
	removed := 0
	var kept []string
	for _, t := range c.DefaultTags {
		if slices.Contains(names, t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	c.DefaultTags = kept
	return removed
}

// Remove deletes every default tag and template whose name is in names.
// It returns how many entries were removed.
func (c *TagConfig) Remove(names ...string) int {
	removed := c.RemoveTags(names...)
	for _, name := range names {
		if _, ok := c.Templates[name]; ok {
			delete(c.Templates, name)
			removed++
		}
	}
	return removed
}

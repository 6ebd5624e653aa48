// Package search matches catalogued documents against a delimiter
// separated query on one field.
package search

import (
	"fmt"
	"strings"

	"github.com/rogersnm/doctag/internal/model"
)

type Field int

const (
	Tags Field = iota
	Comment
	Name
)

func (f Field) String() string {
	switch f {
	case Tags:
		return "tags"
	case Comment:
		return "comment"
	case Name:
		return "name"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "tags", "tag", "":
		return Tags, nil
	case "comment", "comments":
		return Comment, nil
	case "name", "filename":
		return Name, nil
	}
	return 0, fmt.Errorf("invalid field %q: must be one of tags, comment, name", s)
}

// Mode selects how query tokens combine. Only tag search honours All.
type Mode int

const (
	Any Mode = iota
	All
)

func (m Mode) String() string {
	if m == All {
		return "all"
	}
	return "any"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "any", "greedy", "":
		return Any, nil
	case "all", "strict":
		return All, nil
	}
	return 0, fmt.Errorf("invalid mode %q: must be any or all", s)
}

type Query struct {
	Text  string
	Field Field
	Mode  Mode
}

// Run returns the documents matching q, in the order given. Blank query
// text matches nothing.
func Run(docs []model.Document, q Query) []model.Document {
	tokens := model.SplitQuery(q.Text)
	if len(tokens) == 0 {
		return nil
	}
	var found []model.Document
	for _, d := range docs {
		if matches(&d, tokens, q) {
			found = append(found, d.Clone())
		}
	}
	return found
}

func matches(d *model.Document, tokens []string, q Query) bool {
	switch q.Field {
	case Tags:
		if q.Mode == All {
			for _, t := range tokens {
				if !d.HasTag(t) {
					return false
				}
			}
			return true
		}
		for _, t := range tokens {
			if d.HasTag(t) {
				return true
			}
		}
	case Comment:
		return containsAny(d.Comment, tokens)
	case Name:
		return containsAny(d.FileName, tokens)
	}
	return false
}

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

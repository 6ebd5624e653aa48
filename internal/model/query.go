package model

import "strings"

// Delimiter separates tokens in tag entry and search text.
const Delimiter = ", "

// Simplify trims s and collapses every internal whitespace run to one space.
func Simplify(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitQuery simplifies text and splits it on Delimiter. Blank text yields nil.
func SplitQuery(text string) []string {
	s := Simplify(text)
	if s == "" {
		return nil
	}
	return strings.Split(s, Delimiter)
}

// SplitPaths splits text on Delimiter without touching whitespace inside
// the parts, so file names keep their exact spelling. Blank parts are dropped.
func SplitPaths(text string) []string {
	var out []string
	for _, p := range strings.Split(text, Delimiter) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func JoinTags(tags []string) string {
	return strings.Join(tags, Delimiter)
}

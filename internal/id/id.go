package id

import (
	"fmt"
	"strconv"
)

// Format returns the folder name for a document id.
func Format(n int) string {
	return strconv.Itoa(n)
}

// Parse converts a numbered folder name back to a document id.
func Parse(name string) (int, error) {
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: not a number", name)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", name)
	}
	if Format(n) != name {
		return 0, fmt.Errorf("invalid id %q: not in canonical form", name)
	}
	return n, nil
}

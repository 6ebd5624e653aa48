package repofile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const FileName = ".doctag-root"

// Find walks up from startDir looking for a .doctag-root file.
// Returns the managed root it names, resolved against the directory holding
// the file, and that directory. Returns ("", "", nil) if not found.
func Find(startDir string) (root, dir string, err error) {
	dir = startDir
	for {
		root, err := Read(dir)
		if err != nil {
			return "", "", err
		}
		if root != "" {
			if !filepath.IsAbs(root) {
				root = filepath.Join(dir, root)
			}
			return root, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

// Write links dir to the managed root by writing dir/.doctag-root.
func Write(dir, root string) error {
	return os.WriteFile(filepath.Join(dir, FileName), []byte(root+"\n"), 0644)
}

// Read reads and trims the .doctag-root file in dir.
// Returns ("", nil) if the file does not exist.
func Read(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Remove deletes the link in dir. A missing link is not an error.
func Remove(dir string) error {
	err := os.Remove(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Package catalog resolves script names to files under a single scripts directory.
//
// The filesystem is the source of truth: nothing is cached, every call re-reads
// the directory so scripts may be added or removed between calls.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReservedPrefix marks internal/init files that are never listed.
const ReservedPrefix = "__"

// ErrInvalidName is returned by ValidateName for names that could escape the root.
var ErrInvalidName = errors.New("invalid script name")

// Catalog is the read-only registry of scripts backed by a directory.
type Catalog struct {
	root string
	ext  string
}

// New creates a catalog rooted at dir recognizing files with the given extension
// (with or without the leading dot).
func New(dir, ext string) *Catalog {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Catalog{root: filepath.Clean(dir), ext: ext}
}

// Root returns the scripts directory.
func (c *Catalog) Root() string {
	return c.root
}

// Extension returns the recognized script extension, including the dot.
func (c *Catalog) Extension() string {
	return c.ext
}

// ValidateName checks that name is a bare script name that cannot leave the root.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// List returns the names of all scripts directly under the root. A missing
// root yields an empty list. Order is unspecified.
func (c *Catalog) List() []string {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return []string{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		fileName := entry.Name()
		if strings.HasPrefix(fileName, ReservedPrefix) || filepath.Ext(fileName) != c.ext {
			continue
		}
		// Follow symlinks: a link to a regular file counts as a script.
		info, err := os.Stat(filepath.Join(c.root, fileName))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		name := strings.TrimSuffix(fileName, c.ext)
		if ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Exists reports whether name resolves to a regular file under the root.
func (c *Catalog) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(c.Resolve(name))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Resolve joins the root and name plus extension. It performs no existence
// check; callers must validate the name first if it comes from user input.
func (c *Catalog) Resolve(name string) string {
	return filepath.Join(c.root, name+c.ext)
}

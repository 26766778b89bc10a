package models

import (
	"strings"
	"time"
)

// Entry represents one file or folder row from a provider listing
type Entry struct {
	Path      string    `json:"path"`                // Full path, unique within a scan root
	Name      string    `json:"name"`                // Base name
	Size      int64     `json:"size"`                // Size in bytes, 0 for directories
	IsDir     bool      `json:"is_dir"`              // Is a directory
	Hash      string    `json:"hash,omitempty"`      // Content hash as reported by the provider; empty means unknown
	Extension string    `json:"extension"`           // Lower-cased extension without dot, derived from Name if not supplied
	Created   time.Time `json:"created,omitempty"`   // Creation time, if the provider reports it
	Modified  time.Time `json:"modified,omitempty"`  // Modification time, if the provider reports it
}

// NewFileEntry builds a file entry with the extension derived from the name.
func NewFileEntry(path, name string, size int64, hash string) Entry {
	e := Entry{
		Path: path,
		Name: name,
		Size: size,
		Hash: hash,
	}
	e.Extension = ExtensionOf(name)
	return e
}

// NewDirEntry builds a directory entry. Directories never carry a hash.
func NewDirEntry(path, name string) Entry {
	return Entry{
		Path:  path,
		Name:  name,
		IsDir: true,
	}
}

// Normalize fills derived fields and enforces entry invariants:
// extension is lower-cased, directories carry no hash and no size.
func (e *Entry) Normalize() {
	if e.IsDir {
		e.Hash = ""
		e.Size = 0
		e.Extension = ""
		return
	}
	if e.Extension == "" {
		e.Extension = ExtensionOf(e.Name)
	} else {
		e.Extension = strings.ToLower(e.Extension)
	}
}

// ExtensionOf extracts the lower-cased extension from a file name.
// Returns an empty string when the name has no dot.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// Catalog is the materialized listing for one scan root.
type Catalog []Entry

// Files returns the non-directory entries.
func (c Catalog) Files() []Entry {
	files := make([]Entry, 0, len(c))
	for _, e := range c {
		if !e.IsDir {
			files = append(files, e)
		}
	}
	return files
}

// Dirs returns the directory entries.
func (c Catalog) Dirs() []Entry {
	dirs := make([]Entry, 0)
	for _, e := range c {
		if e.IsDir {
			dirs = append(dirs, e)
		}
	}
	return dirs
}

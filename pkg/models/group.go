package models

// FileRef is the subset of an entry kept inside a duplicate file group.
type FileRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FolderRef is the subset of an entry kept inside a duplicate folder group.
type FolderRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// FileDetail is one file row in the large-file and executable listings.
type FileDetail struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
}

// DuplicateFileGroup is a set of files sharing the same size and content hash
type DuplicateFileGroup struct {
	Hash        string    `json:"hash"`         // Shared content hash
	Size        int64     `json:"size"`         // Size of each member
	Count       int       `json:"count"`        // Number of members, always >= 2
	WastedSpace int64     `json:"wasted_space"` // Size * (Count - 1)
	Files       []FileRef `json:"files"`        // Member files
}

// DuplicateFolderGroup is a set of folders with identical descendant content
type DuplicateFolderGroup struct {
	Signature   string      `json:"signature"`    // Content signature shared by members
	Count       int         `json:"count"`        // Number of members, always >= 2
	Size        int64       `json:"size"`         // Average member content size
	WastedSpace int64       `json:"wasted_space"` // Size * (Count - 1)
	Folders     []FolderRef `json:"folders"`      // Member folders
}

package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category names. "other" is the fallback for unmatched extensions.
const (
	CategoryVideo      = "video"
	CategoryImage      = "image"
	CategoryAudio      = "audio"
	CategoryDocument   = "document"
	CategoryArchive    = "archive"
	CategoryExecutable = "executable"
	CategoryDiskImage  = "disk_image"
	CategoryOther      = "other"
)

// CategoryDef binds a category name to its extension set. Definitions are
// matched in order: an extension listed under more than one category always
// resolves to the earliest one.
type CategoryDef struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// DefaultCategories is the built-in category priority list.
func DefaultCategories() []CategoryDef {
	return []CategoryDef{
		{Name: CategoryVideo, Extensions: []string{
			"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "rm", "rmvb", "m4v", "3gp",
		}},
		{Name: CategoryImage, Extensions: []string{
			"jpg", "jpeg", "png", "gif", "bmp", "webp", "svg", "ico", "tiff", "psd", "raw",
		}},
		{Name: CategoryAudio, Extensions: []string{
			"mp3", "wav", "flac", "aac", "m4a", "ogg", "wma", "ape", "alac",
		}},
		{Name: CategoryDocument, Extensions: []string{
			"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "md", "rtf", "odt", "ods", "odp",
		}},
		{Name: CategoryArchive, Extensions: []string{
			"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "cab", "iso",
		}},
		{Name: CategoryExecutable, Extensions: ExecutableExtensions()},
		{Name: CategoryDiskImage, Extensions: []string{
			"iso", "img", "vmdk", "vdi", "vhd", "bin", "cue",
		}},
	}
}

// ExecutableExtensions is the extension set used by the executable finder.
func ExecutableExtensions() []string {
	return []string{
		"exe", "msi", "apk", "ipa", "dmg", "deb", "rpm", "pkg", "bat", "cmd", "sh", "app",
	}
}

// categoryFile is the YAML layout for a custom category definition file.
type categoryFile struct {
	Categories []CategoryDef `yaml:"categories"`
}

// LoadCategories reads an ordered category list from a YAML file.
func LoadCategories(path string) ([]CategoryDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf categoryFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse categories file %s: %w", path, err)
	}
	if len(cf.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}

	for _, def := range cf.Categories {
		if def.Name == "" {
			return nil, fmt.Errorf("categories file %s contains an unnamed category", path)
		}
	}

	return cf.Categories, nil
}

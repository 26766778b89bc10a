package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// LoadListing reads a catalog from a JSON listing file: an array of entry
// objects as exported by a provider dump. Derived fields are normalized so
// downstream analysis sees consistent entries.
func LoadListing(path string) (models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing %s: %w", path, err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", path, err)
	}

	for i := range catalog {
		catalog[i].Normalize()
	}
	return catalog, nil
}

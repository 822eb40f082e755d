package corpus

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SourceMeta is the display metadata configured for one corpus file.
type SourceMeta struct {
	Title string `toml:"title"`
	URL   string `toml:"url"`
}

// Catalog maps a corpus file name (the source id) to its metadata.
type Catalog map[string]SourceMeta

type catalogFile struct {
	Sources map[string]SourceMeta `toml:"sources"`
}

// LoadCatalog decodes a TOML catalog of the form
//
//	[sources."article1.txt"]
//	title = "..."
//	url = "https://..."
//
// An empty path or a missing file yields an empty catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return Catalog{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Catalog{}, nil
	}

	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode source catalog failed: %w", err)
	}
	if file.Sources == nil {
		return Catalog{}, nil
	}
	return Catalog(file.Sources), nil
}

func (c Catalog) Lookup(sourceID string) (SourceMeta, bool) {
	meta, ok := c[sourceID]
	return meta, ok
}

package corpus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"nytinsight/internal/model"
	"nytinsight/internal/pkg/pdfextract"
)

var defaultExtensions = []string{".txt"}

// urlDirective matches a "URL: <url>" line anywhere in a document.
var urlDirective = regexp.MustCompile(`(?m)^URL:\s*(.+)$`)

// Loader reads the article directory. It never writes to the filesystem and
// keeps no state between calls.
type Loader struct {
	dir        string
	catalog    Catalog
	extensions map[string]struct{}
}

func NewLoader(dir string, catalog Catalog, extensions []string) *Loader {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	if catalog == nil {
		catalog = Catalog{}
	}
	return &Loader{dir: dir, catalog: catalog, extensions: exts}
}

func (l *Loader) Dir() string {
	return l.dir
}

// Load returns one Document per recognised file in the directory, in
// directory listing order. A missing directory is not an error: it yields no
// documents. Files that cannot be read are skipped.
func (l *Loader) Load(ctx context.Context) ([]model.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("corpus directory %q not found, serving without documents", l.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("read corpus directory failed: %w", err)
	}

	docs := make([]model.Document, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !l.recognised(entry.Name()) {
			continue
		}

		raw, err := l.readFile(entry.Name())
		if err != nil {
			log.Printf("skip corpus file %q: %v", entry.Name(), err)
			continue
		}
		docs = append(docs, l.resolve(entry.Name(), raw))
	}
	return docs, nil
}

func (l *Loader) recognised(name string) bool {
	_, ok := l.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func (l *Loader) readFile(name string) (string, error) {
	path := filepath.Join(l.dir, name)
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return pdfextract.ExtractFile(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read corpus file failed: %w", err)
	}
	return string(b), nil
}

func (l *Loader) resolve(name, raw string) model.Document {
	doc := model.Document{
		SourceID: name,
		Raw:      raw,
		Title:    strings.TrimSuffix(name, filepath.Ext(name)),
	}
	if meta, ok := l.catalog.Lookup(name); ok {
		if meta.Title != "" {
			doc.Title = meta.Title
		}
		doc.URL = meta.URL
	}
	if url := URLDirective(raw); url != "" {
		doc.URL = url
	}
	return doc
}

// URLDirective returns the trimmed value of the first "URL:" line in raw, or
// "" when there is none.
func URLDirective(raw string) string {
	m := urlDirective.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

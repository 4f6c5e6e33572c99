package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docsync/internal/api"
	"docsync/internal/document"
)

// documentExtensions are the file types the disk resolver will read.
var documentExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// RouteFileName holds per-directory route settings and is never served as a
// document.
const RouteFileName = "route.yaml"

// IsDocumentFile reports whether path has a document file extension.
func IsDocumentFile(path string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(path))]
}

// DiskResolver reads documents from the local filesystem.
type DiskResolver struct {
	// baseDir resolves relative route paths.
	baseDir string
}

// NewDiskResolver creates a resolver that resolves relative paths against baseDir.
func NewDiskResolver(baseDir string) *DiskResolver {
	return &DiskResolver{baseDir: baseDir}
}

// Fetch reads route.Path. A directory resolves to its first document file in
// lexical order; a directory without documents yields no document.
func (r *DiskResolver) Fetch(ctx context.Context, route api.RouteDescriptor) (*api.ServiceDocument, error) {
	if route.Path == "" {
		return nil, fmt.Errorf("route %s has no path", route.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := route.Path
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		file, err := firstDocumentFile(path)
		if err != nil {
			return nil, err
		}
		if file == "" {
			return nil, nil
		}
		path = file
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := document.Build(route, payload, path, "")
	if err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", path, err)
	}
	return doc, nil
}

func firstDocumentFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsDocumentFile(e.Name()) || e.Name() == RouteFileName {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return "", nil
	}
	sort.Strings(files)
	return filepath.Join(dir, files[0]), nil
}

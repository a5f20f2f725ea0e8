package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Report is one catalog entry. The ID doubles as the permission resource id
// granted through the group mapping.
type Report struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url"`
}

// catalogFile is the on-disk shape of the report catalog.
type catalogFile struct {
	Reports []Report `json:"reports"`
}

// CatalogRepo reads the file-backed report catalog. The catalog is edited
// out of band; every List re-reads the file so edits show up without a
// restart.
type CatalogRepo struct {
	path string
}

// NewCatalogRepo constructs a CatalogRepo over the given JSON file.
func NewCatalogRepo(path string) *CatalogRepo {
	return &CatalogRepo{path: path}
}

// List returns every report in the catalog.
func (r *CatalogRepo) List(_ context.Context) ([]Report, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read report catalog %s: %w", r.path, err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse report catalog %s: %w", r.path, err)
	}
	return file.Reports, nil
}

// ListAllowed returns the catalog filtered to the given report ids.
// Default-deny: a report is listed only when its id is explicitly allowed.
func (r *CatalogRepo) ListAllowed(ctx context.Context, allowedIDs []string) ([]Report, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = struct{}{}
	}

	out := make([]Report, 0, len(allowedIDs))
	for _, report := range all {
		if _, ok := allowed[report.ID]; ok {
			out = append(out, report)
		}
	}
	return out, nil
}

package data

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGroupPermissions reads the static group-to-report mapping consumed by
// the permission resolver. The file is a JSON object of directory group
// name to report id list:
//
//	{"BI_Sales_Viewers": ["IME Sales Report"]}
//
// Loaded once at process start and read-only thereafter. A missing file is
// an error: a gateway with no mapping would lock everyone out silently.
func LoadGroupPermissions(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group permissions %s: %w", path, err)
	}

	var mapping map[string][]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("parse group permissions %s: %w", path, err)
	}
	return mapping, nil
}

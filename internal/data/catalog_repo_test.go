package data

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReports = []Report{
	{ID: "IME Sales Report", Name: "IME Sales Report", Category: "Sales", URL: "https://bi.example.com/reports/ime-sales"},
	{ID: "EBSC Monthly Report", Name: "EBSC Monthly Report", Category: "GMR", URL: "https://bi.example.com/reports/ebsc-monthly"},
	{ID: "ECIC Monthly Report", Name: "ECIC Monthly Report", Category: "GMR", URL: "https://bi.example.com/reports/ecic-monthly"},
}

func writeCatalogFile(t *testing.T, reports []Report) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports.json")
	raw, err := json.Marshal(map[string][]Report{"reports": reports})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestCatalogRepo_List(t *testing.T) {
	repo := NewCatalogRepo(writeCatalogFile(t, testReports))

	reports, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testReports, reports)
}

func TestCatalogRepo_ListAllowed(t *testing.T) {
	repo := NewCatalogRepo(writeCatalogFile(t, testReports))
	ctx := context.Background()

	allowed, err := repo.ListAllowed(ctx, []string{"IME Sales Report", "ECIC Monthly Report"})
	require.NoError(t, err)
	require.Len(t, allowed, 2)
	assert.Equal(t, "IME Sales Report", allowed[0].ID)
	assert.Equal(t, "ECIC Monthly Report", allowed[1].ID)
}

func TestCatalogRepo_ListAllowed_DefaultDeny(t *testing.T) {
	repo := NewCatalogRepo(writeCatalogFile(t, testReports))
	ctx := context.Background()

	empty, err := repo.ListAllowed(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	unknown, err := repo.ListAllowed(ctx, []string{"No Such Report"})
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestCatalogRepo_ReReadsFile(t *testing.T) {
	path := writeCatalogFile(t, testReports[:1])
	repo := NewCatalogRepo(path)
	ctx := context.Background()

	first, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	raw, err := json.Marshal(map[string][]Report{"reports": testReports})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	second, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 3)
}

func TestCatalogRepo_MissingFile(t *testing.T) {
	repo := NewCatalogRepo(filepath.Join(t.TempDir(), "missing.json"))
	_, err := repo.List(context.Background())
	assert.Error(t, err)
}

func TestLoadGroupPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"BI_Sales_Viewers": ["IME Sales Report"],
		"BI_GMR_Viewers": ["EBSC Monthly Report", "ECIC Monthly Report"]
	}`), 0o600))

	mapping, err := LoadGroupPermissions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"IME Sales Report"}, mapping["BI_Sales_Viewers"])
	assert.Equal(t, []string{"EBSC Monthly Report", "ECIC Monthly Report"}, mapping["BI_GMR_Viewers"])
}

func TestLoadGroupPermissions_Errors(t *testing.T) {
	_, err := LoadGroupPermissions(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "permissions.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o600))
	_, err = LoadGroupPermissions(path)
	assert.Error(t, err)
}

//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-client"

	StateCatalogSeeded = "catalog seeded"
	StateOrderExists   = "catalog seeded and one order placed"
)

const (
	ExistingProductID   int64 = 1
	MissingProductID    int64 = 404
	OutOfStockProductID int64 = 6

	ExampleIdempotencyKey = "5b7c3a2e-9d1f-4c8a-b6e0-2f4d8a1c7e93"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront client.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProduct is the seeded product used across interactions.
func ExampleProduct() map[string]any {
	return map[string]any{
		"id":          ExistingProductID,
		"name":        "Stoneware Mug",
		"description": "Glazed 350 ml mug",
		"price":       12.5,
		"stock":       40,
		"categoryId":  1,
		"imageUrl":    "/images/mug.png",
		"recommended": true,
	}
}

// ExampleCategory is the first seeded category.
func ExampleCategory() map[string]any {
	return map[string]any{
		"id":              1,
		"mainCategory":    "Home",
		"subCategoryName": "Kitchen",
		"description":     "Cookware and tableware",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

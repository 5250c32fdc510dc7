package store

import (
	"path/filepath"
	"testing"

	"bookstore/internal/db"
	"bookstore/internal/search"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway sqlite database with the full schema and
// seeded roles
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.RegisterJoinTables(g); err != nil {
		t.Fatalf("register join tables: %v", err)
	}
	if err := db.AutoMigrate(g); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedRoles(g); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return g
}

// newTestCatalog pairs a fresh database with an in-memory search index
func newTestCatalog(t *testing.T) (*Catalog, *gorm.DB) {
	t.Helper()
	g := newTestDB(t)
	idx, err := search.Open("")
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return NewCatalog(g, idx), g
}

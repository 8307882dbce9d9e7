package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStateDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := stateDir(); got != filepath.Join("/tmp/xdg", "bookden") {
		t.Fatalf("stateDir() = %q", got)
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	if got := stateDir(); !strings.HasSuffix(got, filepath.Join(".config", "bookden")) {
		t.Fatalf("stateDir() = %q", got)
	}
}

func TestNewApp_SeedsCatalogAndState(t *testing.T) {
	dir := t.TempDir()
	a, err := newApp(dir, "u1", false)
	if err != nil {
		t.Fatal(err)
	}
	if a.books.Len() == 0 {
		t.Fatal("catalog should be seeded")
	}
	// seeding wrote the books slot to disk
	if _, err := os.Stat(filepath.Join(dir, "books.json")); err != nil {
		t.Fatal("books slot not written:", err)
	}
}

func TestRunDemo_FullSaleFlow(t *testing.T) {
	a, err := newApp(t.TempDir(), "demo-seller", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := runDemo(a, "demo-seller"); err != nil {
		t.Fatal(err)
	}
	// the demo listing ends in the terminal state
	mine := a.market.ListBySeller("demo-seller")
	if len(mine) != 1 {
		t.Fatalf("len(listings) = %d, want 1", len(mine))
	}
	if got := mine[0].Status; got != "picked" {
		t.Fatalf("status = %s, want picked", got)
	}
}

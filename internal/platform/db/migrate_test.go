package db

import (
	"strings"
	"testing"
)

func TestMigrationFilesAreOrderedGooseScripts(t *testing.T) {
	files, err := MigrationFiles()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(files) < 3 {
		t.Fatalf("expected at least 3 migrations, got %v", files)
	}
	for i, name := range files {
		if !strings.HasSuffix(name, ".sql") {
			t.Fatalf("unexpected file %s", name)
		}
		if i > 0 && files[i-1] >= name {
			t.Fatalf("migrations out of order: %s before %s", files[i-1], name)
		}
		raw, err := migrations.ReadFile("migrations/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s must declare up and down sections", name)
		}
	}
}

package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsApplied(t *testing.T) {
	db := openTempDB(t)

	migrations := fstest.MapFS{
		"001_keys.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE string_keys(identifier TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE string_keys;"),
		},
	}

	if err := Apply(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "string_keys") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplySkipsAlreadyApplied(t *testing.T) {
	db := openTempDB(t)

	migrations := fstest.MapFS{
		"001_keys.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE string_keys(identifier TEXT PRIMARY KEY);"),
		},
	}
	for i := 0; i < 2; i++ {
		if err := Apply(context.Background(), db, migrations, ""); err != nil {
			t.Fatalf("apply pass %d: %v", i, err)
		}
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyDoesNotRecordFailedMigration(t *testing.T) {
	db := openTempDB(t)

	bad := fstest.MapFS{
		"001_keys.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table string_keys(id INT);"),
		},
	}
	if err := Apply(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	good := fstest.MapFS{
		"001_keys.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE string_keys(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := Apply(context.Background(), db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected fixed migration to be recorded, got %d rows", rows)
	}
}

func TestApplyRespectsRoot(t *testing.T) {
	db := openTempDB(t)

	migrations := fstest.MapFS{
		"registry/001_keys.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE registry_rows(id TEXT PRIMARY KEY);"),
		},
	}

	if err := Apply(context.Background(), db, migrations, "registry"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	var name string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&name); err != nil {
		t.Fatalf("query migration name: %v", err)
	}
	if name != "registry/001_keys.sql" {
		t.Fatalf("expected migration key with root path, got %q", name)
	}
	if !tableExists(t, db, "registry_rows") {
		t.Fatal("expected migrated table in root-based migration")
	}
}

func TestApplyRequiresDB(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected nil db error")
	}
}

func TestUpSection(t *testing.T) {
	content := "-- header\n-- +migrate Up\nCREATE TABLE a(x);\n-- +migrate Down\nDROP TABLE a;"
	if got := strings.TrimSpace(UpSection(content)); got != "CREATE TABLE a(x);" {
		t.Fatalf("UpSection = %q", got)
	}
	if got := UpSection("CREATE TABLE b(x);"); got != "CREATE TABLE b(x);" {
		t.Fatalf("UpSection without markers = %q", got)
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if !IsAlreadyExistsError(errors.New("table string_keys already exists")) {
		t.Fatal("expected already exists match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("expected syntax error not to match")
	}
	if IsAlreadyExistsError(nil) {
		t.Fatal("expected nil not to match")
	}
}

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}

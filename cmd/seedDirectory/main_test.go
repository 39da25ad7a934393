package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"adminconsole/infrastructure/audit"
	"adminconsole/infrastructure/sqlite"

	"github.com/uptrace/bun"
)

func TestResolveMigrationsDir_FromRepoRoot(t *testing.T) {
	_, repoRoot := testPaths(t)
	withWorkingDir(t, repoRoot)

	dir, err := resolveMigrationsDir()
	if err != nil {
		t.Fatalf("resolve migrations dir from repo root: %v", err)
	}
	assertMigrationsDir(t, dir)
}

func TestResolveMigrationsDir_FromCommandDir(t *testing.T) {
	cmdDir, _ := testPaths(t)
	withWorkingDir(t, cmdDir)

	dir, err := resolveMigrationsDir()
	if err != nil {
		t.Fatalf("resolve migrations dir from cmd/seedDirectory: %v", err)
	}
	assertMigrationsDir(t, dir)
}

func TestSeedPopulatesOnce(t *testing.T) {
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	nRoles, nUsers, err := seed(context.Background(), db, audit.NewService())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if nRoles != len(seedRoles) || nUsers != len(seedNames) {
		t.Fatalf("seeded %d roles, %d users", nRoles, nUsers)
	}

	nRoles, nUsers, err = seed(context.Background(), db, audit.NewService())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if nRoles != 0 || nUsers != 0 {
		t.Fatalf("expected second seed to be a no-op, got %d roles, %d users", nRoles, nUsers)
	}

	var users, defaults int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM roles WHERE is_default = 1").Scan(&defaults)
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if users != len(seedNames) || defaults != 1 {
		t.Fatalf("users=%d defaults=%d", users, defaults)
	}
}

func testPaths(t *testing.T) (cmdDir string, repoRoot string) {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	cmdDir = filepath.Dir(file)
	repoRoot = filepath.Clean(filepath.Join(cmdDir, "..", ".."))
	return cmdDir, repoRoot
}

func withWorkingDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func assertMigrationsDir(t *testing.T, dir string) {
	t.Helper()
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat migrations dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory, got file: %s", dir)
	}
	if !strings.HasSuffix(filepath.ToSlash(dir), "infrastructure/sqlite/migrations") {
		t.Fatalf("unexpected migrations path: %s", dir)
	}
}

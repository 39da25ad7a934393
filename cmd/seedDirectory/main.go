package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"adminconsole/directoryapi/roles"
	"adminconsole/directoryapi/users"
	"adminconsole/infrastructure/audit"
	"adminconsole/infrastructure/sqlite"

	"github.com/uptrace/bun"
)

const seedActor = "seed"

var seedRoles = []roles.NewRole{
	{ID: "role-admin", Name: "Admin", Description: "Full access to every directory record"},
	{ID: "role-editor", Name: "Editor", Description: "Can change users and roles"},
	{ID: "role-viewer", Name: "Viewer", Description: "Read-only access", IsDefault: true},
	{ID: "role-support", Name: "Support", Description: "Helps users with their accounts"},
}

var seedNames = [][2]string{
	{"Ada", "Lovelace"}, {"Alan", "Turing"}, {"Grace", "Hopper"}, {"Edsger", "Dijkstra"},
	{"Barbara", "Liskov"}, {"Donald", "Knuth"}, {"Margaret", "Hamilton"}, {"Ken", "Thompson"},
	{"Dennis", "Ritchie"}, {"Frances", "Allen"}, {"John", "McCarthy"}, {"Radia", "Perlman"},
	{"Niklaus", "Wirth"}, {"Katherine", "Johnson"}, {"Tony", "Hoare"}, {"Leslie", "Lamport"},
	{"Rob", "Pike"}, {"Shafi", "Goldwasser"}, {"Robert", "Griesemer"}, {"Adele", "Goldberg"},
	{"Butler", "Lampson"}, {"Sophie", "Wilson"}, {"Bjarne", "Stroustrup"}, {"Jean", "Sammet"},
}

func main() {
	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	defaultDBPath := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(migrationsDir))), "directory.db")
	dbPath := getenv("SQLITE_PATH", defaultDBPath)

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	nRoles, nUsers, err := seed(context.Background(), db, audit.NewService())
	if err != nil {
		log.Fatalf("seed directory: %v", err)
	}
	fmt.Printf("seeded %d roles and %d users into %s\n", nRoles, nUsers, dbPath)
}

// seed inserts the sample roles and users. It does nothing when the
// directory already holds roles.
func seed(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service) (int, int, error) {
	var existing int
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		n, err := tx.NewSelect().TableExpr("roles").Count(ctx)
		existing = n
		return err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("count roles: %w", err)
	}
	if existing > 0 {
		return 0, 0, nil
	}

	for _, r := range seedRoles {
		if _, err := roles.InsertRole(ctx, db, auditSvc, seedActor, r); err != nil {
			return 0, 0, fmt.Errorf("insert role %s: %w", r.Name, err)
		}
	}
	for i, n := range seedNames {
		u := users.NewUser{
			First:  n[0],
			Last:   n[1],
			RoleID: seedRoles[i%len(seedRoles)].ID,
			Photo:  fmt.Sprintf("https://i.pravatar.cc/64?u=%s.%s", strings.ToLower(n[0]), strings.ToLower(n[1])),
		}
		if _, err := users.InsertUser(ctx, db, auditSvc, seedActor, u); err != nil {
			return 0, 0, fmt.Errorf("insert user %s %s: %w", n[0], n[1], err)
		}
	}
	return len(seedRoles), len(seedNames), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		filepath.Join("infrastructure", "sqlite", "migrations"),
		filepath.Join("..", "..", "infrastructure", "sqlite", "migrations"),
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations"))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)

		if info, err := os.Stat(absPath); err == nil && info.IsDir() {
			return absPath, nil
		}
	}

	return "", fmt.Errorf("migrations dir not found; tried: %s", strings.Join(tried, ", "))
}

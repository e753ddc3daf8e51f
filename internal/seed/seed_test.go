package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/bomengine/internal/db"
	"github.com/Simplici0/bomengine/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations", "sqlite3"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	wantInserts := len(demoCostCenters) + len(demoMachineGroups) + len(demoItems) + len(demoComponents) + len(demoOperations)

	for i := 0; i < 5; i++ {
		stats, err := Run(database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != wantInserts {
				t.Fatalf("expected %d inserts in first run, got %d", wantInserts, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM items WHERE code = ?`, DemoRootCode, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM structure_components WHERE parent_code = ?`, DemoRootCode, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM operations`, nil, len(demoOperations))
	assertCount(t, database, `SELECT COUNT(*) FROM cost_centers WHERE establishment = ? AND code = ?`, []any{"01", "WLD"}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM structure_components WHERE valid_to IS NOT NULL`, nil, 1)
}

func TestDemoOperationsCoverEveryTimeUnit(t *testing.T) {
	seen := map[int]bool{}
	for _, op := range demoOperations {
		seen[op.timeUnit] = true
	}
	for unit := 1; unit <= 4; unit++ {
		if !seen[unit] {
			t.Fatalf("expected a demo operation with time unit %d", unit)
		}
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}

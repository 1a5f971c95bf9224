//go:build integration

package postgres

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

var testPool *pgxpool.Pool

// TestMain connects to the database named by TEST_DATABASE_URL and applies
// the schema. Run with: go test -tags integration ./internal/infra/db/...
func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		log.Println("TEST_DATABASE_URL not set, skipping postgres integration tests")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPgxPool(ctx, url, 4)
	if err != nil {
		log.Fatalf("connect test database: %v", err)
	}
	testPool = pool

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "0001_transactions.sql"))
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Helper()
	if _, err := testPool.Exec(context.Background(), "TRUNCATE transactions;"); err != nil {
		t.Fatalf("truncate transactions: %v", err)
	}
}

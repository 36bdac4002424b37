package postgres

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/config"
)

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *Client {
	t.Helper()
	port, _ := strconv.Atoi(envOrDefault("TEST_POSTGRES_PORT", "5432"))
	cfg := config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            port,
		Database:        envOrDefault("TEST_POSTGRES_DB", "queryprep_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "queryprep"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	db, err := New(context.Background(), cfg)
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	table := "intx_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	t.Cleanup(func() { db.DB.Exec(`DROP TABLE IF EXISTS ` + table) })

	wantErr := errors.New("abort")
	err := db.InTx(ctx, func(tx Execer) error {
		if _, err := tx.ExecContext(ctx, `CREATE TABLE `+table+` (id INT)`); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("InTx = %v, want %v", err, wantErr)
	}
	var exists bool
	if err := db.DB.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("table created inside a failed transaction survived")
	}
}

func TestInTxCommits(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	table := "intx_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	t.Cleanup(func() { db.DB.Exec(`DROP TABLE IF EXISTS ` + table) })

	if err := db.InTx(ctx, func(tx Execer) error {
		_, err := tx.ExecContext(ctx, `CREATE TABLE `+table+` (id INT)`)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO `+table+` VALUES (1)`); err != nil {
		t.Errorf("committed table not usable: %v", err)
	}
}

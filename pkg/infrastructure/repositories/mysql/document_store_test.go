package mysql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

func TestIsTransientError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"deadlock", &mysql.MySQLError{Number: 1213}, true},
		{"lock wait timeout", &mysql.MySQLError{Number: 1205}, true},
		{"too many connections", &mysql.MySQLError{Number: 1040}, true},
		{"wrapped deadlock", fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1213}), true},
		{"invalid connection", mysql.ErrInvalidConn, true},
		{"syntax error", &mysql.MySQLError{Number: 1064}, false},
		{"other error", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransientError(tc.err); got != tc.transient {
				t.Errorf("Expected transient %v, got %v", tc.transient, got)
			}
		})
	}
}

func TestOpen_RejectsMalformedDSN(t *testing.T) {
	if _, err := Open("not a dsn"); err == nil {
		t.Fatal("Expected error for a malformed DSN, but got none")
	}
}

// Runs against a real server when BAKESHOP_TEST_MYSQL_DSN is set
func TestDocumentStore_Integration(t *testing.T) {
	dsn := os.Getenv("BAKESHOP_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("BAKESHOP_TEST_MYSQL_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("Expected connection: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	store, err := NewDocumentStore(ctx, db, nil)
	if err != nil {
		t.Fatalf("Expected store to be created: %v", err)
	}

	owner := "test-" + t.Name()
	defer db.ExecContext(ctx, `DELETE FROM snapshots WHERE owner_id = ?`, owner)

	if _, err := store.LoadDocument(ctx, owner); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Fatalf("Expected ErrSnapshotNotFound, got %v", err)
	}

	snapshot := testhelpers.BuildNastarSnapshot()
	for i := 0; i < 2; i++ {
		snapshot.Products[0].Stock = int64(10 + i)
		if err := store.SaveDocument(ctx, owner, &snapshot); err != nil {
			t.Fatalf("Expected save %d to succeed: %v", i+1, err)
		}
	}

	loaded, err := store.LoadDocument(ctx, owner)
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if testhelpers.ProductStock(loaded, seed.NastarID) != 11 {
		t.Errorf("Expected the upsert to keep the latest stock 11, got %d", testhelpers.ProductStock(loaded, seed.NastarID))
	}
}

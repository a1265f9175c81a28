package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"scenecore/internal/infra/persistence/postgres/testutil"
	"scenecore/pkg/domain"
)

func openStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore("", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreAppliesSchemaAndStateTable(t *testing.T) {
	_, conn := openStubStore(t)

	var sawUsers, sawState bool
	for _, stmt := range conn.Execs {
		up := strings.ToUpper(stmt)
		if strings.Contains(up, "CREATE TABLE IF NOT EXISTS USERS") {
			sawUsers = true
		}
		if strings.Contains(up, "CREATE TABLE IF NOT EXISTS STATE") {
			sawState = true
		}
	}
	if !sawUsers {
		t.Fatalf("relational schema not applied, execs: %v", conn.Execs)
	}
	if !sawState {
		t.Fatalf("state table not ensured, execs: %v", conn.Execs)
	}
}

func TestRunInTransactionPersistsBuckets(t *testing.T) {
	store, conn := openStubStore(t)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUser(domain.User{Email: "pg@example.com"})
		return err
	})
	if err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}

	payloads := map[string][]byte{}
	for _, row := range conn.Tables["state"] {
		bucket, _ := row["bucket"].(string)
		payload, _ := row["payload"].([]byte)
		payloads[bucket] = payload
	}
	data, ok := payloads["users"]
	if !ok {
		t.Fatalf("users bucket not persisted: %v", payloads)
	}
	var users map[string]domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("decode users bucket: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user in bucket, got %d", len(users))
	}
	for _, u := range users {
		if u.Email != "pg@example.com" {
			t.Fatalf("email mismatch: %s", u.Email)
		}
	}
}

func TestNewStoreHydratesFromExistingSnapshot(t *testing.T) {
	seed := map[string]domain.Tag{
		"tag-1": {ID: "tag-1", Category: "genre", Value: "dub"},
	}
	payload, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	db, conn := testutil.NewStubDB()
	conn.Tables["state"] = []map[string]any{
		{"bucket": "tags", "payload": payload},
	}
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	tag, ok := store.GetTag("tag-1")
	if !ok {
		t.Fatal("tag not hydrated")
	}
	if tag.Value != "dub" {
		t.Fatalf("value mismatch: %s", tag.Value)
	}
}

func TestRunInTransactionStopsOnUserError(t *testing.T) {
	store, conn := openStubStore(t)
	before := len(conn.Tables["state"])

	_, err := store.RunInTransaction(context.Background(), func(domain.Transaction) error {
		return fmt.Errorf("user fail")
	})
	if err == nil || !strings.Contains(err.Error(), "user fail") {
		t.Fatalf("expected user error, got %v", err)
	}
	if after := len(conn.Tables["state"]); after != before {
		t.Fatalf("aborted transaction persisted: %d -> %d", before, after)
	}
}

func TestRunInTransactionSurfacesPersistFailure(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailExec = true
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUser(domain.User{Email: "x@example.com"})
		return err
	})
	if err == nil {
		t.Fatal("expected persistence failure")
	}
}

func TestNewStoreOpenError(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return nil, fmt.Errorf("open fail")
	})
	defer restore()
	if _, err := NewStore("", domain.NewRulesEngine()); err == nil || !strings.Contains(err.Error(), "open fail") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestNewStoreDDLError(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailExec = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore("", domain.NewRulesEngine()); err == nil {
		t.Fatal("expected ddl error")
	}
}

func TestLoadSnapshotRowsError(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.RowsErr = fmt.Errorf("row err")
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore("", domain.NewRulesEngine()); err == nil {
		t.Fatal("expected rows error")
	}
}

func TestLoadSnapshotDecodeError(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.Tables["state"] = []map[string]any{
		{"bucket": "users", "payload": []byte("not-json")},
	}
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore("", domain.NewRulesEngine()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPersistCommitError(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailCommit = true
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUser(domain.User{Email: "c@example.com"})
		return err
	})
	if err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit error, got %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a(x text);\n\nCREATE TABLE b(y text);")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
	if got := len(splitStatements("  ;  ;")); got != 0 {
		t.Fatalf("expected no statements from empty input, got %d", got)
	}
}

func TestStoreDBExposesHandle(t *testing.T) {
	store, _ := openStubStore(t)
	if store.DB() == nil {
		t.Fatal("expected DB handle")
	}
}

package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate, so run it again to check idempotency.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)

	// No session yet.
	s, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Fatalf("LoadSession() = %v, want nil on fresh db", s)
	}

	if err := db.SaveSession("tok-1", `{"id":"u1"}`); err != nil {
		t.Fatal(err)
	}
	s, err = db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || s.Token != "tok-1" || s.UserJSON != `{"id":"u1"}` {
		t.Errorf("LoadSession() = %+v, want tok-1 / user u1", s)
	}

	// Save replaces, never accumulates rows.
	if err := db.SaveSession("tok-2", `{"id":"u1"}`); err != nil {
		t.Fatal(err)
	}
	s, _ = db.LoadSession()
	if s.Token != "tok-2" {
		t.Errorf("token = %q, want tok-2", s.Token)
	}
}

func TestClearSession(t *testing.T) {
	db := testDB(t)

	if err := db.ClearSession(); err != nil {
		t.Errorf("ClearSession() on empty db error = %v", err)
	}

	if err := db.SaveSession("tok", "{}"); err != nil {
		t.Fatal(err)
	}
	if err := db.ClearSession(); err != nil {
		t.Fatal(err)
	}
	s, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("LoadSession() after clear = %v, want nil", s)
	}
}

func TestKV(t *testing.T) {
	db := testDB(t)

	v, err := db.GetKV("missing")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Errorf("GetKV(missing) = %q, want empty", v)
	}

	if err := db.SetKV("last_chat", "s1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetKV("last_chat", "s2"); err != nil {
		t.Fatal(err)
	}
	v, _ = db.GetKV("last_chat")
	if v != "s2" {
		t.Errorf("GetKV(last_chat) = %q, want s2", v)
	}
}

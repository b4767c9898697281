package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
	"github.com/fernlabs/fern/internal/state"
	"github.com/fernlabs/fern/internal/store"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "fern.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func waitForSession(t *testing.T, db *store.DB, want bool) *store.PersistedSession {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		persisted, err := db.LoadSession()
		if err != nil {
			t.Fatal(err)
		}
		if (persisted != nil) == want {
			return persisted
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("persisted session presence never became %v", want)
	return nil
}

func TestSessionPersistenceMirrorsAuthTransitions(t *testing.T) {
	db := testDB(t)
	s := state.New(bus.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startSessionPersistence(ctx, db, s, zap.NewNop())

	s.SetSession("tok-1", api.UserProfile{ID: "u1", Email: "a@b.c"})

	persisted := waitForSession(t, db, true)
	if persisted.Token != "tok-1" {
		t.Errorf("token = %q", persisted.Token)
	}

	s.ClearSession()
	waitForSession(t, db, false)
}

func TestRehydrateRestoresPersistedSession(t *testing.T) {
	db := testDB(t)
	if err := db.SaveSession("tok-2", `{"id":"u2","email":"b@c.d","name":"Bo"}`); err != nil {
		t.Fatal(err)
	}

	s := state.New(bus.New())
	rehydrate(db, s, zap.NewNop())

	sess := s.Session()
	if !sess.IsAuthenticated || sess.Token != "tok-2" {
		t.Errorf("session = %+v", sess)
	}
	if sess.User == nil || sess.User.Name != "Bo" {
		t.Errorf("user = %+v", sess.User)
	}
}

func TestRehydrateNoopWithoutPersistedSession(t *testing.T) {
	db := testDB(t)
	s := state.New(bus.New())
	rehydrate(db, s, zap.NewNop())
	if s.Session().IsAuthenticated {
		t.Error("authenticated without persisted session")
	}
}

func TestEnsureInstallIDStable(t *testing.T) {
	db := testDB(t)

	first, err := ensureInstallID(db)
	if err != nil {
		t.Fatal(err)
	}
	if first == "" {
		t.Fatal("empty install id")
	}

	second, err := ensureInstallID(db)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("install id changed: %q != %q", second, first)
	}
}

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
	result, err := db.Migrate()
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if result.Changed {
		t.Error("second Migrate() reported changes")
	}
}

func TestLoadSessionEmpty(t *testing.T) {
	db := testDB(t)
	s, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("LoadSession() = %+v, want nil", s)
	}
}

func TestSaveLoadClearSession(t *testing.T) {
	db := testDB(t)

	saved := &SavedSession{
		UID:     "u1",
		Email:   "wolf@example.com",
		IDToken: "tok-1",
	}
	if err := db.SaveSession(saved); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.UID != "u1" || got.Email != "wolf@example.com" || got.IDToken != "tok-1" {
		t.Errorf("LoadSession() = %+v", got)
	}
	if got.SavedAt == 0 {
		t.Error("SavedAt not stamped")
	}

	// Saving again replaces the single row.
	saved.IDToken = "tok-2"
	if err := db.SaveSession(saved); err != nil {
		t.Fatal(err)
	}
	got, _ = db.LoadSession()
	if got.IDToken != "tok-2" {
		t.Errorf("IDToken = %q, want tok-2", got.IDToken)
	}

	if err := db.ClearSession(); err != nil {
		t.Fatal(err)
	}
	got, err = db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("session not cleared: %+v", got)
	}
}

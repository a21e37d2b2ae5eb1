package prefs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func TestDefaults(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	enabled, err := store.AutomationEnabled(ctx)
	if err != nil {
		t.Fatalf("AutomationEnabled: %v", err)
	}
	if !enabled {
		t.Error("automation should default to enabled")
	}

	message, err := store.DefaultSMSMessage(ctx)
	if err != nil {
		t.Fatalf("DefaultSMSMessage: %v", err)
	}
	if message != DefaultSMSBody {
		t.Errorf("DefaultSMSMessage = %q, want %q", message, DefaultSMSBody)
	}

	seen, err := store.OnboardingSeen(ctx)
	if err != nil {
		t.Fatalf("OnboardingSeen: %v", err)
	}
	if seen {
		t.Error("onboarding should default to not seen")
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.SetAutomationEnabled(ctx, false); err != nil {
		t.Fatalf("SetAutomationEnabled: %v", err)
	}
	enabled, err := store.AutomationEnabled(ctx)
	if err != nil {
		t.Fatalf("AutomationEnabled: %v", err)
	}
	if enabled {
		t.Error("automation should be disabled after set")
	}

	if err := store.SetDefaultSMSMessage(ctx, "Arrived safely"); err != nil {
		t.Fatalf("SetDefaultSMSMessage: %v", err)
	}
	message, err := store.DefaultSMSMessage(ctx)
	if err != nil {
		t.Fatalf("DefaultSMSMessage: %v", err)
	}
	if message != "Arrived safely" {
		t.Errorf("DefaultSMSMessage = %q, want %q", message, "Arrived safely")
	}

	if err := store.SetOnboardingSeen(ctx, true); err != nil {
		t.Fatalf("SetOnboardingSeen: %v", err)
	}
	seen, err := store.OnboardingSeen(ctx)
	if err != nil {
		t.Fatalf("OnboardingSeen: %v", err)
	}
	if !seen {
		t.Error("onboarding should be seen after set")
	}
}

func TestSetOverwritesExistingValue(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.SetDefaultSMSMessage(ctx, "first"); err != nil {
		t.Fatalf("SetDefaultSMSMessage: %v", err)
	}
	if err := store.SetDefaultSMSMessage(ctx, "second"); err != nil {
		t.Fatalf("SetDefaultSMSMessage: %v", err)
	}

	message, err := store.DefaultSMSMessage(ctx)
	if err != nil {
		t.Fatalf("DefaultSMSMessage: %v", err)
	}
	if message != "second" {
		t.Errorf("DefaultSMSMessage = %q, want %q", message, "second")
	}
}

func TestSubscribeAutomationToggle(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	toggles := store.SubscribeAutomationToggle(ctx)

	if err := store.SetAutomationEnabled(ctx, false); err != nil {
		t.Fatalf("SetAutomationEnabled: %v", err)
	}
	if err := store.SetAutomationEnabled(ctx, true); err != nil {
		t.Fatalf("SetAutomationEnabled: %v", err)
	}

	want := []bool{false, true}
	for i, wantValue := range want {
		select {
		case got := <-toggles:
			if got != wantValue {
				t.Errorf("toggle %d = %v, want %v", i, got, wantValue)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for toggle %d", i)
		}
	}
}
